// Package salary implements the deterministic salary banding rules shared by
// candidate import and match scoring.
package salary

import "strconv"

// BandLabel returns the coarse salary band for an amount: the amount rounded
// down to the nearest 10,000, formatted with thousands separators. Amounts
// below 10,000 map to the minimum band "10,000". The second return is false
// for zero or negative amounts, which have no band.
func BandLabel(amount int) (string, bool) {
	if amount <= 0 {
		return "", false
	}
	if amount < 10000 {
		return "10,000", true
	}
	band := amount / 10000 * 10000
	return formatThousands(band), true
}

// DefaultMax derives the default upper salary bound when only a minimum is
// known: min+30,000 below the 100,000 threshold, min+50,000 at or above it.
// The threshold is a business rule, not a heuristic.
func DefaultMax(min int) int {
	if min < 100000 {
		return min + 30000
	}
	return min + 50000
}

// formatThousands inserts comma separators into a non-negative integer.
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	out = append(out, s[:lead]...)
	for i := lead; i < len(s); i += 3 {
		out = append(out, ',')
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}
