package extract

import "strings"

// LooksLikeCSV is the CSV-likelihood heuristic used by CSV extraction.
//
// This is a heuristic, not a parser. Rules, preserved exactly from the
// shipped behavior:
//   - split into non-empty lines; require at least one
//   - count commas on line 1; reject if zero
//   - over at most the first 5 lines, reject if any line's comma count
//     differs from line 1's by more than 1
//
// The +/-1 tolerance admits minor irregularities (a quoted field containing
// a comma) without a full CSV parser. It is a known source of false
// positives and false negatives; do not tighten or loosen it.
func LooksLikeCSV(text string) bool {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return false
	}

	first := strings.Count(lines[0], ",")
	if first == 0 {
		return false
	}

	sample := len(lines)
	if sample > 5 {
		sample = 5
	}
	for i := 0; i < sample; i++ {
		diff := strings.Count(lines[i], ",") - first
		if diff > 1 || diff < -1 {
			return false
		}
	}
	return true
}
