package fitting

// Canonical attribute ids used directly by the core.
const (
	attrMass           = 4
	attrCapacitorNeed  = 6
	attrCapacity       = 38
	attrVolume         = 161
	attrRadius         = 162
	attrSkillLevel     = 280
	attrRequiredSkill1 = 182
	attrRequiredSkill2 = 183
	attrRequiredSkill3 = 184
	attrRequiredSkill4 = 1285
	attrRequiredSkill5 = 1289
	attrRequiredSkill6 = 1290
)

var requiredSkillAttributeIDs = [6]int{
	attrRequiredSkill1, attrRequiredSkill2, attrRequiredSkill3,
	attrRequiredSkill4, attrRequiredSkill5, attrRequiredSkill6,
}

// seedAttributes installs every dogma attribute the oracle reports for the
// item's type as a fresh Attribute (pass 1, invariant I1: base_value is
// set exactly once, here), then overlays the type's physical properties
// (mass/capacity/volume/radius) under their canonical attribute ids. A type
// with no metadata entry simply gets no overlay; the dogma attributes alone
// carry it.
func seedAttributes(o Oracle, it *Item) error {
	attrs, err := o.TypeAttributes(it.TypeID)
	if err != nil {
		return err
	}
	for _, a := range attrs {
		it.SetAttribute(a.AttributeID, a.Value)
	}

	typeMeta, err := o.TypeMeta(it.TypeID)
	if err != nil {
		return nil
	}
	if typeMeta.Mass != nil {
		it.SetAttribute(attrMass, *typeMeta.Mass)
	}
	if typeMeta.Capacity != nil {
		it.SetAttribute(attrCapacity, *typeMeta.Capacity)
	}
	if typeMeta.Volume != nil {
		it.SetAttribute(attrVolume, *typeMeta.Volume)
	}
	if typeMeta.Radius != nil {
		it.SetAttribute(attrRadius, *typeMeta.Radius)
	}
	return nil
}

// pass1 materialises the fit into the flat item graph and seeds base
// attributes from static data.
func pass1(o Oracle, ship *Ship, fit Fit, skills Skills) error {
	if err := seedAttributes(o, ship.Hull); err != nil {
		return err
	}
	if err := seedAttributes(o, ship.Char); err != nil {
		return err
	}
	if err := seedAttributes(o, ship.Structure); err != nil {
		return err
	}
	if err := seedAttributes(o, ship.Target); err != nil {
		return err
	}

	for _, skillID := range skills.Order {
		level := skills.Levels[skillID]
		skill := NewItem(skillID, Slot{Kind: SlotSynthetic, Index: len(ship.Skills)})
		if err := seedAttributes(o, skill); err != nil {
			return err
		}
		skill.SetAttribute(attrSkillLevel, float64(level))
		ship.Skills = append(ship.Skills, skill)
	}

	for _, m := range fit.Modules {
		item := NewItem(m.TypeID, Slot{Kind: m.Slot.Kind.toSlotKind(), Index: m.Slot.Index})
		item.State = m.State.toActivationState()
		if err := seedAttributes(o, item); err != nil {
			return err
		}
		if m.Charge != nil {
			charge := NewItem(m.Charge.TypeID, Slot{Kind: SlotCharge, Index: m.Slot.Index})
			charge.State = Active
			if err := seedAttributes(o, charge); err != nil {
				return err
			}
			item.Charge = charge
		}
		ship.Items = append(ship.Items, item)
	}

	for _, d := range fit.Drones {
		drone := NewItem(d.TypeID, Slot{Kind: SlotDroneBay, Index: len(ship.Items)})
		drone.State = d.State.toActivationState()
		if err := seedAttributes(o, drone); err != nil {
			return err
		}
		ship.Items = append(ship.Items, drone)
	}

	return nil
}
