package gradebook

import "math"

// letterBands maps percentage cutoffs to letter grades, highest first. Each
// cutoff is an inclusive lower bound; anything below the last band is an F.
var letterBands = []struct {
	min    float64
	letter string
}{
	{93, "A"},
	{90, "A-"},
	{87, "B+"},
	{83, "B"},
	{80, "B-"},
	{77, "C+"},
	{73, "C"},
	{70, "C-"},
	{67, "D+"},
	{63, "D"},
	{60, "D-"},
}

// LetterGrade maps a percentage to its letter grade. NaN input yields "N/A"
// rather than an error or panic: an unreadable stored value must never take
// down a report.
func LetterGrade(percentage float64) string {
	if math.IsNaN(percentage) {
		return "N/A"
	}
	for _, band := range letterBands {
		if percentage >= band.min {
			return band.letter
		}
	}
	return "F"
}
