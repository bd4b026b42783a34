package fitting

import "math"

// attrModuleSpeed is the rate-of-fire cycle time (51). Turrets and
// launchers carry it instead of an explicit duration (73); whichever is
// present drives the module's cycle, duration winning when both are.
const attrModuleSpeed = 51

// moduleCycleMs resolves an item's cycle length in milliseconds: explicit
// duration (73) wins over rate-of-fire (51). Returns 0 for an item that
// never cycles.
func moduleCycleMs(it *Item, read attrReader) float64 {
	cycle := read(it, attrModuleDuration)
	if cycle <= 0 {
		cycle = read(it, attrModuleSpeed)
	}
	return cycle
}

// capacitorSimMaxEvents bounds the event loop: a ship that never depletes within this many
// module activations is reported cap-stable rather than simulated forever.
const capacitorSimMaxEvents = 100_000

// capStableSeconds is the sentinel reported when the ship never runs its
// capacitor dry.
const capStableSeconds = -1.0

// capacitorChargeAfter advances a capacitor from level e0 by dt seconds,
// using EVE's closed-form recharge curve:
// cap(t_next) = (1 + (sqrt(cap(t_last)/C) - 1) * exp(5*(t_last-t_next)/tau))^2 * C,
// tau = rechargeTimeSeconds.
func capacitorChargeAfter(e0, capacity, rechargeTimeSeconds, dt float64) float64 {
	if capacity <= 0 || rechargeTimeSeconds <= 0 {
		return e0
	}
	ratio := e0 / capacity
	if ratio < 0 {
		ratio = 0
	}
	x := 1 + (math.Sqrt(ratio)-1)*math.Exp(5*(-dt)/rechargeTimeSeconds)
	return capacity * x * x
}

// capacitorModule is one active-state item that drains the capacitor on a
// repeating cycle: capacitorNeed per activation, and a
// cycle length drawn from duration (73) if present, else rate-of-fire (51).
type capacitorModule struct {
	need       float64
	cycleMs    float64
	nextCycles float64 // next activation instant, in milliseconds
}

// activeCapacitorModules collects every Active+ item with both a
// capacitorNeed and a resolvable cycle time; everything else is irrelevant
// to the simulation (a module with no cycle never fires again, and one
// with no capacitorNeed does not drain anything).
func activeCapacitorModules(ship *Ship, read attrReader) []*capacitorModule {
	var mods []*capacitorModule
	for _, item := range ship.Items {
		if item.State < Active {
			continue
		}
		need := read(item, attrCapacitorNeed)
		if need <= 0 {
			continue
		}
		cycle := moduleCycleMs(item, read)
		if cycle <= 0 {
			continue
		}
		// Every module fires its first cycle at t=0, against the full
		// capacitor; the depletion clock starts there.
		mods = append(mods, &capacitorModule{need: need, cycleMs: cycle, nextCycles: 0})
	}
	return mods
}

// simulateCapacitorDepletion runs an event loop that repeats: advance to
// the earliest next module activation, recharge analytically
// across that gap, subtract every module firing at that instant, and
// reschedule it. Returns seconds-to-deplete (or capStableSeconds if the
// capacitor never reaches zero within the event cap) and the number of
// events stepped, for the caller's simulation-cost metric.
func simulateCapacitorDepletion(capacity, rechargeTimeSeconds float64, mods []*capacitorModule) (float64, int) {
	if capacity <= 0 || len(mods) == 0 {
		return capStableSeconds, 0
	}

	level := capacity
	tLastMs := 0.0

	for event := 0; event < capacitorSimMaxEvents; event++ {
		tNextMs := mods[0].nextCycles
		for _, m := range mods[1:] {
			if m.nextCycles < tNextMs {
				tNextMs = m.nextCycles
			}
		}

		level = capacitorChargeAfter(level, capacity, rechargeTimeSeconds, (tNextMs-tLastMs)/1000)
		if level > capacity {
			level = capacity
		}
		tLastMs = tNextMs

		for _, m := range mods {
			if m.nextCycles <= tLastMs+1e-9 {
				level -= m.need
				m.nextCycles += m.cycleMs
			}
		}

		if level <= 0 {
			return tLastMs / 1000, event + 1
		}
	}
	return capStableSeconds, capacitorSimMaxEvents
}

// capacitorPeakUsage sums every active module's steady capacitor drain
// rate (capacitorNeed per cycle, normalised to per-second), used for the
// closed-form peak-delta derivations.
func capacitorPeakUsage(mods []*capacitorModule) float64 {
	var total float64
	for _, m := range mods {
		total += m.need / (m.cycleMs / 1000)
	}
	return total
}

type capacitorMetrics struct {
	peakRecharge, peakUsage float64
	delta, deltaPercent     float64
	stableSeconds           float64
	simSteps                int
	simRan                  bool
}

// deriveCapacitor computes the closed-form peak figures and, when the
// balance is negative, runs the depletion simulation.
func deriveCapacitor(ship *Ship, read attrReader) capacitorMetrics {
	capacity := read(ship.Hull, attrCapacitorCapacity)
	rechargeTimeMillis := read(ship.Hull, attrCapRechargeTime)

	mods := activeCapacitorModules(ship, read)

	m := capacitorMetrics{
		peakRecharge:  peakRechargeRate(capacity, rechargeTimeMillis),
		peakUsage:     capacitorPeakUsage(mods),
		stableSeconds: capStableSeconds,
	}
	m.delta = m.peakRecharge - m.peakUsage
	if m.peakRecharge > 0 {
		m.deltaPercent = m.delta / m.peakRecharge * 100
	}

	if m.delta < 0 {
		m.stableSeconds, m.simSteps = simulateCapacitorDepletion(capacity, rechargeTimeMillis/1000, mods)
		m.simRan = true
	}
	return m
}

func pass4Capacitor(ship *Ship) {
	base := deriveCapacitor(ship, baseAttr)
	final := deriveCapacitor(ship, resolvedAttr)

	ship.AddAttribute(attrCapPeakRecharge, base.peakRecharge, final.peakRecharge)
	ship.AddAttribute(attrCapPeakUsage, base.peakUsage, final.peakUsage)
	ship.AddAttribute(attrCapDelta, base.delta, final.delta)
	ship.AddAttribute(attrCapDeltaPercent, base.deltaPercent, final.deltaPercent)
	ship.AddAttribute(attrCapStableSeconds, base.stableSeconds, final.stableSeconds)
	if final.simRan {
		ship.AddAttribute(attrCapacitorSimSteps, 0, float64(final.simSteps))
	}
}
