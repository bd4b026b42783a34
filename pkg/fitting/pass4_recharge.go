package fitting

// Real dogma attribute ids for fitted repair modules.
const (
	attrModuleDuration    = 73 // module cycle time, milliseconds
	attrArmorDamageAmount = 84
	attrHullDamageAmount  = 1943
)

// peakRechargeRate is EVE's closed form for the reservoir recharge curve's
// peak (reached at 25% charge): 2.5 * capacity / rechargeTimeSeconds.
// Shared between the shield's passive recharge and the capacitor's
// peak-recharge derivation; both run on the same curve.
func peakRechargeRate(capacity, rechargeTimeMillis float64) float64 {
	if rechargeTimeMillis <= 0 {
		return 0
	}
	return 2.5 * capacity / (rechargeTimeMillis / 1000)
}

// activeRepairRate sums every Active-state item's repair-per-cycle over its
// cycle time, for whichever layer attributeID names. This
// covers fitted armor/hull repairers; shields have no equivalent active
// self-repair in the core item set, only the passive curve above.
func activeRepairRate(ship *Ship, repairAmountAttributeID int, read attrReader) float64 {
	var total float64
	for _, item := range ship.Items {
		if item.State < Active {
			continue
		}
		amount := read(item, repairAmountAttributeID)
		duration := read(item, attrModuleDuration)
		if amount <= 0 || duration <= 0 {
			continue
		}
		total += amount / (duration / 1000)
	}
	return total
}

func pass4Recharge(ship *Ship) {
	basePeak := peakRechargeRate(baseAttr(ship.Hull, attrShieldCapacity), baseAttr(ship.Hull, attrShieldRechargeTime))
	finalPeak := peakRechargeRate(resolvedAttr(ship.Hull, attrShieldCapacity), resolvedAttr(ship.Hull, attrShieldRechargeTime))

	ship.AddAttribute(attrShieldPassiveRecharge, basePeak, finalPeak)
	ship.AddAttribute(attrShieldRechargeRate, basePeak, finalPeak)
	ship.AddAttribute(attrArmorRechargeRate,
		activeRepairRate(ship, attrArmorDamageAmount, baseAttr),
		activeRepairRate(ship, attrArmorDamageAmount, resolvedAttr))
	ship.AddAttribute(attrHullRechargeRate,
		activeRepairRate(ship, attrHullDamageAmount, baseAttr),
		activeRepairRate(ship, attrHullDamageAmount, resolvedAttr))
}
