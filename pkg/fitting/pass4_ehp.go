package fitting

// layerEHP turns a raw hit-point pool and its four damage-type resonances
// into effective HP against ship.DamageProfile: hp / weighted average
// resonance. A resonance of 1.0 is no resistance; 0.5 is
// 50% resistance.
func layerEHP(hp float64, profile DamageProfile, em, thermal, kinetic, explosive float64) float64 {
	weighted := profile.EM*em + profile.Thermal*thermal + profile.Kinetic*kinetic + profile.Explosive*explosive
	if weighted <= 0 {
		return 0
	}
	return hp / weighted
}

type ehpValues struct {
	shield, armor, hull float64
}

func (e ehpValues) total() float64 { return e.shield + e.armor + e.hull }

func deriveEHP(ship *Ship, read attrReader) ehpValues {
	profile := ship.DamageProfile

	return ehpValues{
		shield: layerEHP(read(ship.Hull, attrShieldCapacity), profile,
			read(ship.Hull, attrShieldEMResonance),
			read(ship.Hull, attrShieldThermalResonance),
			read(ship.Hull, attrShieldKineticResonance),
			read(ship.Hull, attrShieldExplosiveResonance)),
		armor: layerEHP(read(ship.Hull, attrArmorHP), profile,
			read(ship.Hull, attrArmorEMResonance),
			read(ship.Hull, attrArmorThermalResonance),
			read(ship.Hull, attrArmorKineticResonance),
			read(ship.Hull, attrArmorExplosiveResonance)),
		hull: layerEHP(read(ship.Hull, attrHullHP), profile,
			read(ship.Hull, attrHullEMResonance),
			read(ship.Hull, attrHullThermalResonance),
			read(ship.Hull, attrHullKineticResonance),
			read(ship.Hull, attrHullExplosiveResonance)),
	}
}

// pass4EHP derives per-layer and total effective HP.
func pass4EHP(ship *Ship) {
	base := deriveEHP(ship, baseAttr)
	final := deriveEHP(ship, resolvedAttr)

	ship.AddAttribute(attrShieldEHP, base.shield, final.shield)
	ship.AddAttribute(attrArmorEHP, base.armor, final.armor)
	ship.AddAttribute(attrHullEHP, base.hull, final.hull)
	ship.AddAttribute(attrTotalEHP, base.total(), final.total())
}
