package maplist

import "math"

// How many points the map at list position idx is worth under the list's current config.
func Points(idx int, cfg Config) float64 {
	btm := cfg["points_bottom_map"]
	top := cfg["points_top_map"]
	slp := cfg["formula_slope"]
	amt := cfg["map_count"]

	exp := math.Pow(1+(1-float64(idx))/(amt-1), slp)
	result := btm + math.Pow(top/btm, exp)

	digits := int(cfg["decimal_digits"])
	if digits <= 0 {
		return math.Floor(result)
	}

	scale := math.Pow10(digits)
	return math.Round(result*scale) / scale
}
