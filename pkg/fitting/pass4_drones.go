package fitting

type droneRollup struct {
	activeCount, bayUsed, bandwidthUsed, dps float64
}

// deriveDrones rolls up drone-bay usage and active-drone damage output.
// Drones carry their own weapon attributes directly (unlike turrets, they
// load no separate charge), so damage is read off the drone item itself.
func deriveDrones(ship *Ship, read attrReader) droneRollup {
	var out droneRollup

	for _, item := range ship.Items {
		if item.Slot.Kind != SlotDroneBay {
			continue
		}
		out.bayUsed += read(item, attrVolume)

		if item.State < Active {
			continue
		}
		out.activeCount++
		out.bandwidthUsed += read(item, attrDroneBandwidthUse)

		damagePerShot := weaponAlpha(item, item, read)
		cycleTime := moduleCycleMs(item, read) / 1000
		if damagePerShot > 0 && cycleTime > 0 {
			out.dps += damagePerShot / cycleTime
		}
	}
	return out
}

func pass4Drones(ship *Ship) {
	base := deriveDrones(ship, baseAttr)
	final := deriveDrones(ship, resolvedAttr)

	ship.AddAttribute(attrDronesActiveCount, base.activeCount, final.activeCount)
	ship.AddAttribute(attrDroneBayUsed, base.bayUsed, final.bayUsed)
	ship.AddAttribute(attrDroneBandwidthUsed, base.bandwidthUsed, final.bandwidthUsed)
	ship.AddAttribute(attrDroneDPS, base.dps, final.dps)
}
