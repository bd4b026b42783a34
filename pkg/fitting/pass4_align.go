package fitting

import "math"

// alignTimeSeconds is the closed form EVE uses for time-to-align:
// t = -ln(0.25) * mass * agility / 1,000,000 seconds.
func alignTimeSeconds(ship *Ship, read attrReader) float64 {
	return -math.Log(0.25) * read(ship.Hull, attrMass) * read(ship.Hull, attrAgility) / 1_000_000
}

func pass4Align(ship *Ship) {
	ship.AddAttribute(attrAlignTimeSeconds,
		alignTimeSeconds(ship, baseAttr),
		alignTimeSeconds(ship, resolvedAttr))
}
