package fitting

// deriveScanStrength reports the ship's effective scan strength: a hull
// only ever fits sensors of one type, so the reported strength is whichever
// of the four sensor-strength attributes is strongest.
func deriveScanStrength(ship *Ship, read attrReader) float64 {
	strength := read(ship.Hull, attrScanRadarStrength)
	for _, v := range []float64{
		read(ship.Hull, attrScanLadarStrength),
		read(ship.Hull, attrScanMagnetometricStrength),
		read(ship.Hull, attrScanGravimetricStrength),
	} {
		if v > strength {
			strength = v
		}
	}
	return strength
}

func pass4Scan(ship *Ship) {
	ship.AddAttribute(attrScanStrength,
		deriveScanStrength(ship, baseAttr),
		deriveScanStrength(ship, resolvedAttr))
}
