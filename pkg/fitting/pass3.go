package fitting

import (
	"math"
	"sort"
)

// penaltyFactor is the stacking-penalty base: the k-th (0-indexed, sorted
// by descending magnitude) penalized contribution in a sign bucket counts
// for penaltyFactor^(k^2) of its nominal bonus.
const penaltyFactor = 0.8691199808003974

// cacheKey identifies one (Object, attribute) evaluation slot. Evaluation
// results are memoized directly on the Attribute itself (its Value
// pointer), so cacheKey only exists to detect in-progress recursion.
type cacheKey struct {
	obj         Object
	attributeID int
}

type evalCtx struct {
	o        Oracle
	ship     *Ship
	visiting map[cacheKey]bool
}

// allObjects enumerates every Object the ship graph can address, in a
// fixed order, so pass 3 resolves every attribute exactly once regardless
// of whether anything else depends on it.
func allObjects(ship *Ship) []Object {
	objs := []Object{ShipObj, Char, Structure, TargetObj}
	for i, item := range ship.Items {
		objs = append(objs, ObjItemAt(i))
		if item.Charge != nil {
			objs = append(objs, ObjChargeAt(i))
		}
	}
	for i := range ship.Skills {
		objs = append(objs, ObjSkillAt(i))
	}
	return objs
}

// pass3 resolves every seeded attribute to a final Value by walking its
// Effects, recursively resolving each contribution's source attribute, and
// composing them in dogma operator order.
func pass3(o Oracle, ship *Ship) {
	ctx := &evalCtx{o: o, ship: ship, visiting: map[cacheKey]bool{}}
	for _, obj := range allObjects(ship) {
		it := ship.itemFor(obj)
		for attributeID := range it.Attributes {
			evaluate(ctx, obj, attributeID)
		}
	}
}

// evaluate resolves a single (obj, attributeID) pair, memoizing the result
// on the Attribute's Value field. A dependency cycle (an attribute whose
// evaluation transitively depends on itself) is a data defect: it is
// broken by freezing the cycling attribute at its base value rather than
// aborting the whole calculation.
func evaluate(ctx *evalCtx, obj Object, attributeID int) float64 {
	it := ctx.ship.itemFor(obj)
	attr, ok := it.Attributes[attributeID]
	if !ok {
		meta := mustAttributeMeta(ctx.o, attributeID)
		attr = it.GetOrSeedAttribute(attributeID, meta.DefaultValue)
	}
	if attr.Value != nil {
		return *attr.Value
	}

	key := cacheKey{obj: obj, attributeID: attributeID}
	if ctx.visiting[key] {
		v := attr.BaseValue
		attr.Value = &v
		return v
	}
	ctx.visiting[key] = true
	defer delete(ctx.visiting, key)

	v := resolveAttribute(ctx, attr, attributeID)
	attr.Value = &v
	return v
}

// contribution is one effect's resolved numeric input, ready to compose.
type contribution struct {
	value   float64
	penalty bool
}

func resolveAttribute(ctx *evalCtx, attr *Attribute, attributeID int) float64 {
	byOperator := make(map[Operator][]contribution, int(operatorCount))
	for _, eff := range attr.Effects {
		// A contribution is skipped when the source hasn't reached the
		// activation category it projects at: a passive module does not project active-category
		// modifiers.
		if ctx.ship.itemFor(eff.Source).State < eff.SourceCategory {
			continue
		}
		srcValue := evaluate(ctx, eff.Source, eff.SourceAttributeID)
		byOperator[eff.Operator] = append(byOperator[eff.Operator], contribution{
			value:   srcValue,
			penalty: eff.Penalty,
		})
	}

	value := attr.BaseValue

	// Competing assignments are resolved by the target attribute's own sort
	// preference; look it up lazily since most attributes carry none.
	highIsGood := func() bool {
		return mustAttributeMeta(ctx.o, attributeID).HighIsGood
	}

	if assigns := byOperator[PreAssign]; len(assigns) > 0 {
		value = chooseAssign(assigns, highIsGood)
	}

	value *= combinedMultiplier(preMultiplicativeBonuses(byOperator))

	for _, c := range byOperator[ModAdd] {
		value += c.value
	}
	for _, c := range byOperator[ModSub] {
		value -= c.value
	}

	value *= combinedMultiplier(postMultiplicativeBonuses(byOperator))

	if assigns := byOperator[PostAssign]; len(assigns) > 0 {
		value = chooseAssign(assigns, highIsGood)
	}

	return value
}

// chooseAssign resolves a set of competing Assign contributions to the one
// winner: the largest magnitude if the attribute prefers high values,
// otherwise the smallest; the first entry wins a magnitude tie, keeping
// the result stable in insertion order. An assignment can never be
// stacking-penalized; pass 2 only flags multiplicative operators, so a
// penalized entry here means the routing tables are corrupt.
func chooseAssign(contribs []contribution, highIsGood func() bool) float64 {
	for _, c := range contribs {
		if c.penalty {
			panic(&InvariantError{Msg: "stacking-penalized contribution in an assignment bucket"})
		}
	}
	best := contribs[0]
	if len(contribs) > 1 {
		preferHigh := highIsGood()
		for _, c := range contribs[1:] {
			if preferHigh {
				if math.Abs(c.value) > math.Abs(best.value) {
					best = c
				}
			} else if math.Abs(c.value) < math.Abs(best.value) {
				best = c
			}
		}
	}
	return best.value
}

// preMultiplicativeBonuses converts PreMul/PreDiv contributions into
// unity-relative bonuses.
func preMultiplicativeBonuses(byOperator map[Operator][]contribution) []contribution {
	var out []contribution
	for _, c := range byOperator[PreMul] {
		out = append(out, contribution{value: c.value - 1, penalty: c.penalty})
	}
	for _, c := range byOperator[PreDiv] {
		out = append(out, contribution{value: 1/c.value - 1, penalty: c.penalty})
	}
	return out
}

// postMultiplicativeBonuses converts PostMul/PostDiv/PostPercent
// contributions into unity-relative bonuses.
func postMultiplicativeBonuses(byOperator map[Operator][]contribution) []contribution {
	var out []contribution
	for _, c := range byOperator[PostMul] {
		out = append(out, contribution{value: c.value - 1, penalty: c.penalty})
	}
	for _, c := range byOperator[PostDiv] {
		out = append(out, contribution{value: 1/c.value - 1, penalty: c.penalty})
	}
	for _, c := range byOperator[PostPercent] {
		out = append(out, contribution{value: c.value / 100, penalty: c.penalty})
	}
	return out
}

// combinedMultiplier composes a set of unity-relative bonuses into a
// single multiplier: unpenalized bonuses apply in full; penalized bonuses
// are stacking-penalized within their sign bucket, sorted by descending
// magnitude, before being composed.
func combinedMultiplier(bonuses []contribution) float64 {
	var positive, negative []float64
	result := 1.0

	for _, b := range bonuses {
		if !b.penalty {
			result *= 1 + b.value
			continue
		}
		if b.value >= 0 {
			positive = append(positive, b.value)
		} else {
			negative = append(negative, b.value)
		}
	}

	result *= stackingPenalized(positive)
	result *= stackingPenalized(negative)
	return result
}

// stackingPenalized sorts one sign bucket by descending magnitude and
// applies penaltyFactor^(k^2) to the k-th entry (0-indexed), returning the
// combined (1+adjusted_bonus) product.
func stackingPenalized(bonuses []float64) float64 {
	if len(bonuses) == 0 {
		return 1
	}
	sorted := append([]float64(nil), bonuses...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i]) > math.Abs(sorted[j])
	})

	result := 1.0
	for k, v := range sorted {
		factor := math.Pow(penaltyFactor, float64(k*k))
		result *= 1 + v*factor
	}
	return result
}
