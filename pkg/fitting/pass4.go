package fitting

// Derived-attribute ids pass 4 writes onto the hull. These
// are synthetic: no dogma type carries them as a base attribute, so they
// never collide with pass 1/2/3 seeded ids.
const (
	attrAlignTimeSeconds = 1_000_001

	attrCapPeakRecharge  = 1_000_010
	attrCapPeakUsage     = 1_000_011
	attrCapDelta         = 1_000_012
	attrCapDeltaPercent  = 1_000_013
	attrCapStableSeconds = 1_000_014 // seconds until depletion; -1 sentinel: cap-stable, never depletes

	attrCPUUsed     = 1_000_020
	attrCPUUnused   = 1_000_021
	attrPowerUsed   = 1_000_022
	attrPowerUnused = 1_000_023

	attrAlphaHP          = 1_000_030
	attrDPSWithReload    = 1_000_031
	attrDPSWithoutReload = 1_000_032

	attrDronesActiveCount  = 1_000_040
	attrDroneBayUsed       = 1_000_041
	attrDroneBandwidthUsed = 1_000_042
	attrDroneDPS           = 1_000_043

	attrShieldEHP = 1_000_050
	attrArmorEHP  = 1_000_051
	attrHullEHP   = 1_000_052
	attrTotalEHP  = 1_000_053

	attrShieldPassiveRecharge = 1_000_060
	attrShieldRechargeRate    = 1_000_061
	attrArmorRechargeRate     = 1_000_062
	attrHullRechargeRate      = 1_000_063

	attrScanStrength = 1_000_070

	attrRAHIterations     = 1_000_080 // only set when a reactive armor hardener is fitted
	attrCapacitorSimSteps = 1_000_081 // only set when the capacitor depletion simulator actually ran
)

// AttrRAHIterations and AttrCapacitorSimSteps are exported so collaborators
// outside the core (the HTTP handler, the CLI) can read these diagnostic
// synthetic attributes off a resolved Ship to feed their own metrics/logs,
// without the core itself importing a metrics package.
const (
	AttrRAHIterations     = attrRAHIterations
	AttrCapacitorSimSteps = attrCapacitorSimSteps
)

// Real dogma attribute ids pass 4 reads.
const (
	attrCapacitorCapacity = 482
	attrCapRechargeTime   = 55 // milliseconds

	attrShieldCapacity     = 263
	attrShieldRechargeTime = 479 // milliseconds

	attrArmorHP = 265
	attrHullHP  = 9

	attrMaxVelocity = 37
	attrAgility     = 70

	attrCPUOutput   = 48
	attrModuleCPU   = 50
	attrPowerOutput = 11
	attrModulePower = 30

	attrDroneBayCapacity  = 283
	attrDroneBandwidthCap = 1271
	attrDroneBandwidthUse = 1272

	attrShieldEMResonance        = 271
	attrShieldThermalResonance   = 274
	attrShieldKineticResonance   = 273
	attrShieldExplosiveResonance = 272

	attrArmorEMResonance        = 267
	attrArmorThermalResonance   = 270
	attrArmorKineticResonance   = 269
	attrArmorExplosiveResonance = 268

	attrHullEMResonance        = 113
	attrHullThermalResonance   = 111
	attrHullKineticResonance   = 110
	attrHullExplosiveResonance = 109

	attrScanRadarStrength         = 211
	attrScanLadarStrength         = 209
	attrScanMagnetometricStrength = 210
	attrScanGravimetricStrength   = 208
)

// attrReader selects which side of an attribute a derivation reads. Every
// closed-form derivation runs twice: once with baseAttr to produce the
// no-skills-no-modules baseline stored as the synthetic attribute's
// BaseValue, once with resolvedAttr to produce its final Value.
type attrReader func(it *Item, attributeID int) float64

// resolvedAttr reads an already pass-3-evaluated attribute's final value,
// falling back to 0 when the item never carried it.
func resolvedAttr(it *Item, attributeID int) float64 {
	attr, ok := it.Attributes[attributeID]
	if !ok || attr.Value == nil {
		return 0
	}
	return *attr.Value
}

// baseAttr reads an attribute's pass-1 seeded base value, falling back to 0
// when the item never carried it.
func baseAttr(it *Item, attributeID int) float64 {
	attr, ok := it.Attributes[attributeID]
	if !ok {
		return 0
	}
	return attr.BaseValue
}

// pass4 synthesizes every derived metric on top of the
// fully resolved (pass 1-3) ship graph. The RAH stage alone needs the
// Oracle back: it deliberately re-enters pass 3's evaluator to
// re-propagate its adapted resonance state.
func pass4(o Oracle, ship *Ship) {
	pass4Align(ship)
	pass4RAH(o, ship)
	pass4EHP(ship)
	pass4Recharge(ship)
	pass4Capacitor(ship)
	pass4CPUPower(ship)
	pass4Drones(ship)
	pass4Damage(ship)
	pass4Scan(ship)
}
