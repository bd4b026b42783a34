package fitting

// DamageProfile holds the four non-negative damage-type weights used by
// pass 4's effective-HP and reactive armor hardener derivations. The weights conventionally
// sum to 1.0 but the core does not enforce that — callers that pass an
// unnormalised profile get unnormalised eHP multipliers, which is a valid
// (if unusual) use of the same arithmetic.
type DamageProfile struct {
	EM        float64
	Thermal   float64
	Kinetic   float64
	Explosive float64
}

// UniformDamageProfile is the (0.25,0.25,0.25,0.25) profile used by
// several end-to-end calculation scenarios in tests.
func UniformDamageProfile() DamageProfile {
	return DamageProfile{EM: 0.25, Thermal: 0.25, Kinetic: 0.25, Explosive: 0.25}
}

// charTypeID is the synthetic "Character" pseudo-type CCP's dogma data
// uses for char-scoped skill modifiers.
const charTypeID = 1373

// Ship is the output of the calculation pipeline: a hull plus its fitted
// items, skills, and synthetic actors, each carrying fully resolved
// attributes after pass 3/4.
type Ship struct {
	Hull          *Item
	Items         []*Item
	Skills        []*Item
	Char          *Item
	Structure     *Item
	Target        *Item
	DamageProfile DamageProfile
}

// newShip constructs the empty ship graph pass 1 will populate.
func newShip(shipTypeID int, damageProfile DamageProfile) *Ship {
	return &Ship{
		Hull:          NewItem(shipTypeID, Slot{Kind: SlotSynthetic}),
		Char:          NewItem(charTypeID, Slot{Kind: SlotSynthetic}),
		Structure:     NewItem(0, Slot{Kind: SlotSynthetic}),
		Target:        NewItem(0, Slot{Kind: SlotSynthetic}),
		DamageProfile: damageProfile,
	}
}

// itemFor resolves an Object to the Item it designates. Charge(i) with no
// charge fitted is a programmer error: pass 2 never emits a Charge(i)
// target/source for an item with no charge (it drops the modifier at the
// OtherID routing step instead), so reaching this branch unexpectedly
// indicates a routing bug, not a data defect.
func (s *Ship) itemFor(obj Object) *Item {
	switch obj.Kind {
	case ObjShip:
		return s.Hull
	case ObjChar:
		return s.Char
	case ObjStructure:
		return s.Structure
	case ObjTarget:
		return s.Target
	case ObjItem:
		return s.Items[obj.Index]
	case ObjSkill:
		return s.Skills[obj.Index]
	case ObjCharge:
		charge := s.Items[obj.Index].Charge
		if charge == nil {
			panic(&InvariantError{Msg: "Charge object with no fitted charge reached evaluation"})
		}
		return charge
	default:
		panic(&InvariantError{Msg: "unreachable Object kind"})
	}
}

// AddAttribute installs a pass-4-synthesized attribute on the hull: most
// derived metrics live there, the ship's one externally-reported item.
func (s *Ship) AddAttribute(attributeID int, baseValue, value float64) {
	s.Hull.AddSynthetic(attributeID, baseValue, value)
}
