package fitting

import "fmt"

// Calculate runs the full four-pass pipeline over a fit: seed attributes
// from static data, expand and route effects, evaluate every attribute
// with stacking penalties applied, and synthesize the derived metrics.
// The returned Ship is fully resolved; every Attribute reachable from it
// carries a non-nil Value.
//
// The single error return is reserved for Oracle failures (data-access
// problems, not data defects): everything the static corpus itself can get
// wrong — a missing attribute, an unknown effect, a malformed modifier —
// is absorbed inline per the three-tier error handling convention. A
// genuinely corrupt corpus (an out-of-range effect category,
// an unreachable operator literal) still panics with an *InvariantError;
// callers that want to convert that into an error can recover it at their
// boundary.
func Calculate(o Oracle, fit Fit, skills Skills, damageProfile DamageProfile) (ship *Ship, err error) {
	ship = newShip(fit.ShipTypeID, damageProfile)

	if err := pass1(o, ship, fit, skills); err != nil {
		return nil, fmt.Errorf("fitting: pass1 seeding failed: %w", err)
	}
	if err := pass2(o, ship, fit.ShipTypeID); err != nil {
		return nil, fmt.Errorf("fitting: pass2 effect expansion failed: %w", err)
	}
	pass3(o, ship)
	pass4(o, ship)

	return ship, nil
}
