package fitting

type fittingUsage struct {
	cpuUsed, powerUsed     float64
	cpuOutput, powerOutput float64
}

// deriveCPUPower sums CPU/powergrid drawn by every non-passive module (an
// offlined module releases its fitting resources) against the hull's
// output.
func deriveCPUPower(ship *Ship, read attrReader) fittingUsage {
	var u fittingUsage
	for _, item := range ship.Items {
		if item.State < Online {
			continue
		}
		u.cpuUsed += read(item, attrModuleCPU)
		u.powerUsed += read(item, attrModulePower)
	}
	u.cpuOutput = read(ship.Hull, attrCPUOutput)
	u.powerOutput = read(ship.Hull, attrPowerOutput)
	return u
}

func pass4CPUPower(ship *Ship) {
	base := deriveCPUPower(ship, baseAttr)
	final := deriveCPUPower(ship, resolvedAttr)

	ship.AddAttribute(attrCPUUsed, base.cpuUsed, final.cpuUsed)
	ship.AddAttribute(attrCPUUnused, base.cpuOutput-base.cpuUsed, final.cpuOutput-final.cpuUsed)
	ship.AddAttribute(attrPowerUsed, base.powerUsed, final.powerUsed)
	ship.AddAttribute(attrPowerUnused, base.powerOutput-base.powerUsed, final.powerOutput-final.powerUsed)
}
