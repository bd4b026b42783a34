package handlers

import (
	"fmt"
	"strconv"

	"github.com/Sternrassler/eve-fitting-engine/pkg/fitting"
)

// buildFit translates the wire calculateRequest into the core's Fit,
// Skills, and DamageProfile collaborators. This is the textual/JSON fit
// parser the Non-goals keep outside pkg/fitting itself.
func buildFit(req calculateRequest) (fitting.Fit, fitting.Skills, fitting.DamageProfile, error) {
	fit := fitting.Fit{ShipTypeID: req.ShipTypeID}

	for _, m := range req.Modules {
		slotKind, err := parseSlotKind(m.Slot)
		if err != nil {
			return fitting.Fit{}, fitting.Skills{}, fitting.DamageProfile{}, err
		}
		state, err := parseExternalState(m.State)
		if err != nil {
			return fitting.Fit{}, fitting.Skills{}, fitting.DamageProfile{}, err
		}

		mod := fitting.ModuleInput{
			TypeID: m.TypeID,
			Slot:   fitting.ModuleSlot{Kind: slotKind, Index: m.Index},
			State:  state,
		}
		if m.Charge != nil {
			mod.Charge = &fitting.ChargeInput{TypeID: m.Charge.TypeID}
		}
		fit.Modules = append(fit.Modules, mod)
	}

	for _, d := range req.Drones {
		state, err := parseExternalState(d.State)
		if err != nil {
			return fitting.Fit{}, fitting.Skills{}, fitting.DamageProfile{}, err
		}
		fit.Drones = append(fit.Drones, fitting.DroneInput{TypeID: d.TypeID, State: state})
	}

	var pairs [][2]int
	for idStr, level := range req.Skills {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return fitting.Fit{}, fitting.Skills{}, fitting.DamageProfile{}, fmt.Errorf("invalid skill type_id %q: %w", idStr, err)
		}
		pairs = append(pairs, [2]int{id, level})
	}
	skills := fitting.NewSkills(pairs...)

	damageProfile := fitting.UniformDamageProfile()
	if req.Damage != nil {
		damageProfile = fitting.DamageProfile{
			EM:        req.Damage.EM,
			Thermal:   req.Damage.Thermal,
			Kinetic:   req.Damage.Kinetic,
			Explosive: req.Damage.Explosive,
		}
	}

	return fit, skills, damageProfile, nil
}

func parseSlotKind(s string) (fitting.ModuleSlotKind, error) {
	switch s {
	case "high":
		return fitting.SlotKindHigh, nil
	case "medium":
		return fitting.SlotKindMedium, nil
	case "low":
		return fitting.SlotKindLow, nil
	case "rig":
		return fitting.SlotKindRig, nil
	case "subsystem":
		return fitting.SlotKindSubSystem, nil
	default:
		return 0, fmt.Errorf("%w: %q", errUnknownSlot, s)
	}
}

func parseExternalState(s string) (fitting.ExternalState, error) {
	switch s {
	case "", "passive":
		return fitting.StatePassive, nil
	case "online":
		return fitting.StateOnline, nil
	case "active":
		return fitting.StateActive, nil
	case "overload":
		return fitting.StateOverload, nil
	default:
		return 0, fmt.Errorf("%w: %q", errUnknownState, s)
	}
}
