package sheet

import "strconv"

// formatNumber renders a float64 the way a spreadsheet cell displays it:
// the shortest decimal representation that round-trips, with no forced
// trailing zeros or exponent for ordinary magnitudes.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
