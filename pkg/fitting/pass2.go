package fitting

// exemptPenaltyCategoryIDs are dogma category ids exempt from stacking
// penalties: Ship(6), Charge(8), Skill(16), Implant(20), Subsystem(32).
var exemptPenaltyCategoryIDs = map[int]bool{6: true, 8: true, 16: true, 20: true, 32: true}

// pendingEffect is a not-yet-routed modifier contribution: it carries the
// resolved modifier kind/payload, operator, source, and (for ItemModifier)
// a concrete target, to be dispatched once every item's effects have been
// collected.
type pendingEffect struct {
	kind        ModifierFunc
	skillTypeID int // LocationRequiredSkillModifier / OwnerRequiredSkillModifier payload
	groupID     int // LocationGroupModifier payload

	operator          Operator
	source            Object
	sourceCategory    ActivationState
	sourceAttributeID int

	target            Object
	targetAttributeID int
}

// resolveTargetObject implements modifier-domain target resolution.
func resolveTargetObject(domain ModifierDomain, origin Object) (Object, bool) {
	switch domain {
	case DomainShipID:
		return ShipObj, true
	case DomainCharID:
		return Char, true
	case DomainStructureID:
		return Structure, true
	case DomainTarget, DomainTargetID:
		return TargetObj, true
	case DomainItemID:
		return origin, true
	case DomainOtherID:
		switch origin.Kind {
		case ObjItem:
			return ObjChargeAt(origin.Index), true
		case ObjCharge:
			return ObjItemAt(origin.Index), true
		default:
			// OtherID on a non-module origin has no defined meaning.
			// Abort rather than silently mis-route.
			panic(&InvariantError{Msg: "OtherID modifier domain on non-module origin " + origin.String()})
		}
	default:
		panic(&InvariantError{Msg: "unreachable modifier domain"})
	}
}

// collectEffects walks one item's dogma effects, updates its activation
// lattice bookkeeping (max_state, state), and appends every surviving
// modifier as a pendingEffect. Bare (modifier-less) effects are recorded
// on the item itself.
func collectEffects(o Oracle, it *Item, origin Object, out *[]pendingEffect) error {
	typeEffects, err := o.TypeEffects(it.TypeID)
	if err != nil {
		return err
	}

	for _, te := range typeEffects {
		meta, err := o.EffectMeta(te.EffectID)
		if err != nil {
			// Unknown effect id: data defect, drop it.
			continue
		}
		category := effectCategoryFromInt(meta.Category)
		if category > it.MaxState && category <= Overload {
			it.MaxState = category
		}

		if len(meta.ModifierInfo) == 0 {
			it.Effects = append(it.Effects, te.EffectID)
			continue
		}

		for _, mod := range meta.ModifierInfo {
			if mod.Func == ModifierEffectStopper {
				continue
			}
			operator, ok := operatorFromOperation(mod.Operation)
			if !ok {
				// Operation 9 (skill-points-to-level): drop.
				continue
			}

			if origin.Kind == ObjItem && mod.Domain == DomainOtherID && it.Charge == nil {
				continue
			}

			target, ok := resolveTargetObject(mod.Domain, origin)
			if !ok {
				continue
			}

			pe := pendingEffect{
				kind:              mod.Func,
				skillTypeID:       mod.SkillTypeID,
				groupID:           mod.GroupID,
				operator:          operator,
				source:            origin,
				sourceCategory:    category,
				sourceAttributeID: mod.ModifyingAttributeID,
				target:            target,
				targetAttributeID: mod.ModifiedAttributeID,
			}
			*out = append(*out, pe)
		}
	}

	if _, ok := it.Attributes[attrCapacitorNeed]; ok && it.MaxState < Active {
		it.MaxState = Active
	}

	if it.State > it.MaxState {
		it.State = it.MaxState
	}

	return nil
}

// sourceTypeID resolves which type_id the contribution's source object is
// backed by, needed to classify stacking-penalty exemption by category.
func sourceTypeID(ship *Ship, fitShipTypeID int, obj Object) (int, bool) {
	switch obj.Kind {
	case ObjShip:
		return fitShipTypeID, true
	case ObjItem:
		return ship.Items[obj.Index].TypeID, true
	case ObjCharge:
		charge := ship.Items[obj.Index].Charge
		if charge == nil {
			return 0, false
		}
		return charge.TypeID, true
	case ObjSkill:
		return ship.Skills[obj.Index].TypeID, true
	case ObjChar:
		return charTypeID, true
	case ObjStructure, ObjTarget:
		// These domains are scaffolded but not realised; treated as no-ops.
		return 0, false
	default:
		panic(&InvariantError{Msg: "unreachable Object kind"})
	}
}

// addEffect appends a routed Effect to the target item's attribute,
// seeding the attribute from the dogma default if it is not yet present,
// and classifying the stacking-penalty flag.
func addEffect(o Oracle, target *Item, attributeID, sourceCategoryTypeID int, pe pendingEffect) {
	attrMeta := mustAttributeMeta(o, attributeID)
	attr := target.GetOrSeedAttribute(attributeID, attrMeta.DefaultValue)

	penalty := penaltyEligible[pe.operator] && !attrMeta.Stackable && !exemptPenaltyCategoryIDs[sourceCategoryTypeID]

	attr.Effects = append(attr.Effects, Effect{
		Operator:          pe.operator,
		Penalty:           penalty,
		Source:            pe.source,
		SourceCategory:    pe.sourceCategory,
		SourceAttributeID: pe.sourceAttributeID,
	})
}

// pass2 discovers which attribute modifications apply to which targets:
// effect expansion and routing.
func pass2(o Oracle, ship *Ship, fitShipTypeID int) error {
	var pending []pendingEffect

	if err := collectEffects(o, ship.Hull, ShipObj, &pending); err != nil {
		return err
	}
	if err := collectEffects(o, ship.Char, Char, &pending); err != nil {
		return err
	}
	for i, item := range ship.Items {
		if err := collectEffects(o, item, ObjItemAt(i), &pending); err != nil {
			return err
		}
		if item.Charge != nil {
			if err := collectEffects(o, item.Charge, ObjChargeAt(i), &pending); err != nil {
				return err
			}
		}
	}
	for i, skill := range ship.Skills {
		if err := collectEffects(o, skill, ObjSkillAt(i), &pending); err != nil {
			return err
		}
	}

	for _, pe := range pending {
		srcTypeID, ok := sourceTypeID(ship, fitShipTypeID, pe.source)
		if !ok {
			continue
		}
		srcTypeMeta, err := o.TypeMeta(srcTypeID)
		if err != nil {
			// Data defect: source type missing metadata. Drop modifier.
			continue
		}
		categoryID := srcTypeMeta.CategoryID

		switch pe.kind {
		case ModifierItem:
			addEffect(o, ship.itemFor(pe.target), pe.targetAttributeID, categoryID, pe)

		case ModifierLocation:
			addEffect(o, ship.Hull, pe.targetAttributeID, categoryID, pe)
			for _, item := range ship.Items {
				addEffect(o, item, pe.targetAttributeID, categoryID, pe)
				if item.Charge != nil {
					addEffect(o, item.Charge, pe.targetAttributeID, categoryID, pe)
				}
			}

		case ModifierLocationGroup:
			if hullMeta, err := o.TypeMeta(ship.Hull.TypeID); err == nil && hullMeta.GroupID == pe.groupID {
				addEffect(o, ship.Hull, pe.targetAttributeID, categoryID, pe)
			}
			for _, item := range ship.Items {
				if m, err := o.TypeMeta(item.TypeID); err == nil && m.GroupID == pe.groupID {
					addEffect(o, item, pe.targetAttributeID, categoryID, pe)
				}
				if item.Charge != nil {
					if m, err := o.TypeMeta(item.Charge.TypeID); err == nil && m.GroupID == pe.groupID {
						addEffect(o, item.Charge, pe.targetAttributeID, categoryID, pe)
					}
				}
			}

		case ModifierLocationRequiredSkill, ModifierOwnerRequiredSkill:
			skillTypeID := pe.skillTypeID
			if skillTypeID == -1 {
				skillTypeID = srcTypeID
			}
			applyRequiredSkillModifier(o, ship, skillTypeID, categoryID, pe)

		default:
			panic(&InvariantError{Msg: "unreachable modifier kind"})
		}
	}

	return nil
}

// applyRequiredSkillModifier routes a required-skill modifier to every
// item/charge (hull included) that declares skillTypeID in one of its six
// required-skill attributes.
func applyRequiredSkillModifier(o Oracle, ship *Ship, skillTypeID int, categoryID int, pe pendingEffect) {
	declaresSkill := func(it *Item) bool {
		for _, attrID := range requiredSkillAttributeIDs {
			if attr, ok := it.Attributes[attrID]; ok && attr.BaseValue == float64(skillTypeID) {
				return true
			}
		}
		return false
	}

	if declaresSkill(ship.Hull) {
		addEffect(o, ship.Hull, pe.targetAttributeID, categoryID, pe)
	}
	for _, item := range ship.Items {
		if declaresSkill(item) {
			addEffect(o, item, pe.targetAttributeID, categoryID, pe)
		}
		if item.Charge != nil && declaresSkill(item.Charge) {
			addEffect(o, item.Charge, pe.targetAttributeID, categoryID, pe)
		}
	}
}
