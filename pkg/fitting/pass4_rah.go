package fitting

import (
	"math"
	"sort"
)

// Reactive armor hardener constants. The module is identified by type id (it
// carries ordinary LocationModifier effects onto the hull's own armor
// resonance attributes, same as any other resistance module), its
// per-iteration shift budget is dogma attribute 1849
// (resistanceShiftAmount), and its own four resonance attributes share
// attribute ids with the hull's since a LocationModifier effect projects
// them straight across.
const (
	rahTypeID                 = 4403
	attrResistanceShiftAmount = 1849

	rahMaxIterations   = 50
	rahConvergeEpsilon = 1e-6
	rahAverageLastN    = 20
)

// rahResonanceIDs fixes an index order (em, explosive, kinetic, thermal)
// shared with rahWeights, so a damage profile's weights line up against the
// matching resonance
// attribute.
var rahResonanceIDs = [4]int{
	attrArmorEMResonance, attrArmorExplosiveResonance,
	attrArmorKineticResonance, attrArmorThermalResonance,
}

func rahWeights(profile DamageProfile) [4]float64 {
	return [4]float64{profile.EM, profile.Explosive, profile.Kinetic, profile.Thermal}
}

// rankDescending returns the indices of v sorted by descending value,
// ties broken by ascending original index via a stable sort over [0,1,2,3].
func rankDescending(v [4]float64) [4]int {
	order := [4]int{0, 1, 2, 3}
	sort.SliceStable(order[:], func(i, j int) bool { return v[order[i]] > v[order[j]] })
	return order
}

// calculateRAHShift computes one iteration's adjustment to the hardener's
// own resonance state. Damage types are ranked by their profile-weighted
// ("effective") resonance; the module moves resistance away from the two
// lowest-threat directions toward the two highest.
// Degenerate profiles — only one or two damage types carrying any weight —
// drive the unweighted directions straight to their resonance ceiling in
// a single step, since nothing is lost giving them away immediately.
func calculateRAHShift(effective, current [4]float64, maxShiftAmount float64) [4]float64 {
	order := rankDescending(effective)
	var shift [4]float64

	switch {
	case effective[order[1]] == 0:
		shift[order[1]] = 1 - current[order[1]]
		shift[order[2]] = 1 - current[order[2]]
		shift[order[3]] = 1 - current[order[3]]
		shift[order[0]] = -(shift[order[1]] + shift[order[2]] + shift[order[3]])
	case effective[order[2]] == 0:
		shift[order[2]] = 1 - current[order[2]]
		shift[order[3]] = 1 - current[order[3]]
		shift[order[0]] = -(shift[order[2]] + shift[order[3]]) / 2
		shift[order[1]] = -(shift[order[2]] + shift[order[3]]) / 2
	default:
		shift[order[2]] = math.Min(maxShiftAmount, 1-current[order[2]])
		shift[order[3]] = math.Min(maxShiftAmount, 1-current[order[3]])
		shift[order[0]] = -(shift[order[2]] + shift[order[3]]) / 2
		shift[order[1]] = -(shift[order[2]] + shift[order[3]]) / 2
	}
	return shift
}

func rahStatesClose(a, b [4]float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > rahConvergeEpsilon {
			return false
		}
	}
	return true
}

func averageRAHStates(states [][4]float64) [4]float64 {
	var sum [4]float64
	for _, s := range states {
		for i := range s {
			sum[i] += s[i]
		}
	}
	n := float64(len(states))
	for i := range sum {
		sum[i] = math.Round(sum[i]/n*1000) / 1000
	}
	return sum
}

// rahAffectedHullAttributes finds, by fixed point over the hull's inbound
// Effect graph, every hull attribute whose value transitively derives
// from the RAH's four resonance attributes: first the
// attributes the RAH directly feeds, then whatever feeds off those, until
// the frontier stops growing.
func rahAffectedHullAttributes(ship *Ship, rahObj Object) []int {
	type srcKey struct {
		obj  Object
		attr int
	}

	frontier := make([]srcKey, 0, 4)
	for _, id := range rahResonanceIDs {
		frontier = append(frontier, srcKey{rahObj, id})
	}

	visited := map[int]bool{}
	var result []int

	for len(frontier) > 0 {
		want := make(map[srcKey]bool, len(frontier))
		for _, s := range frontier {
			want[s] = true
		}

		var found []int
		for attrID, attr := range ship.Hull.Attributes {
			if visited[attrID] {
				continue
			}
			for _, eff := range attr.Effects {
				if want[srcKey{eff.Source, eff.SourceAttributeID}] {
					found = append(found, attrID)
					visited[attrID] = true
					break
				}
			}
		}
		if len(found) == 0 {
			break
		}
		result = append(result, found...)

		frontier = frontier[:0]
		for _, id := range found {
			frontier = append(frontier, srcKey{ShipObj, id})
		}
	}
	return result
}

// invalidateAndRecompute clears the memoized Value on every named hull
// attribute and re-resolves it through pass 3's ordinary recursive
// evaluator. This is the RAH loop's deliberate exception to invariant I4
// ("Attribute.value is written once").
func invalidateAndRecompute(o Oracle, ship *Ship, attributeIDs []int) {
	for _, id := range attributeIDs {
		if attr, ok := ship.Hull.Attributes[id]; ok {
			attr.Value = nil
		}
	}
	ctx := &evalCtx{o: o, ship: ship, visiting: map[cacheKey]bool{}}
	for _, id := range attributeIDs {
		evaluate(ctx, ShipObj, id)
	}
}

func setRAHResonance(rah *Item, state [4]float64) {
	for i, id := range rahResonanceIDs {
		v := state[i]
		attr, ok := rah.Attributes[id]
		if !ok {
			attr = NewAttribute(v)
			rah.Attributes[id] = attr
		}
		attr.Value = &v
	}
}

func rahResonanceState(rah *Item) [4]float64 {
	var state [4]float64
	for i, id := range rahResonanceIDs {
		state[i] = resolvedAttr(rah, id)
	}
	return state
}

// pass4RAH adapts the hull's armor resonances when a reactive armor
// hardener is fitted, solving the fixed point this settles into by
// iterating the module's per-cycle shift, re-propagating through the hull's
// effect graph each time, until the resonance vector repeats (a cycle) or
// the iteration budget is spent, then settle on the average.
func pass4RAH(o Oracle, ship *Ship) {
	rahIndex := -1
	for i, item := range ship.Items {
		if item.TypeID == rahTypeID {
			rahIndex = i
			break
		}
	}
	if rahIndex < 0 {
		return
	}
	rah := ship.Items[rahIndex]
	rahObj := ObjItemAt(rahIndex)

	shiftAmount := resolvedAttr(rah, attrResistanceShiftAmount) / 100
	affected := rahAffectedHullAttributes(ship, rahObj)
	weights := rahWeights(ship.DamageProfile)

	history := make([][4]float64, 0, rahMaxIterations)
	cycleStart := -1
	iterCount := 0

	for iter := 0; iter < rahMaxIterations; iter++ {
		iterCount = iter + 1
		var effective [4]float64
		for i, id := range rahResonanceIDs {
			effective[i] = resolvedAttr(ship.Hull, id) * weights[i]
		}
		current := rahResonanceState(rah)

		shift := calculateRAHShift(effective, current, shiftAmount)
		var shifted [4]float64
		for i := range shifted {
			shifted[i] = current[i] + shift[i]
		}

		matched := false
		for i, seen := range history {
			if rahStatesClose(shifted, seen) {
				cycleStart = i
				matched = true
				break
			}
		}
		if matched {
			break
		}

		history = append(history, shifted)
		setRAHResonance(rah, shifted)
		invalidateAndRecompute(o, ship, affected)
	}

	var window [][4]float64
	if cycleStart >= 0 {
		window = history[cycleStart:]
	} else {
		start := len(history) - rahAverageLastN
		if start < 0 {
			start = 0
		}
		window = history[start:]
	}
	if len(window) == 0 {
		return
	}

	final := averageRAHStates(window)
	setRAHResonance(rah, final)
	invalidateAndRecompute(o, ship, affected)

	ship.AddAttribute(attrRAHIterations, 0, float64(iterCount))
}
