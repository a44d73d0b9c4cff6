package service

import "math"

// gradePoints maps a letter mark to grade points for application-side
// aggregation. F is enumerated as 0.0; any other letter is unmapped and the
// caller must skip it, mirroring a CASE expression with an explicit F branch.
func gradePoints(letter string) (float64, bool) {
	switch letter {
	case "A":
		return 4.0, true
	case "B":
		return 3.0, true
	case "C":
		return 2.0, true
	case "D":
		return 1.0, true
	case "F":
		return 0.0, true
	}
	return 0, false
}

// round2 rounds to two decimals, the precision every GPA field is served at.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// performanceRating tiers a student by unweighted average grade points.
func performanceRating(avg float64) string {
	switch {
	case avg >= 3.8:
		return "Outstanding"
	case avg >= 3.5:
		return "Excellent"
	case avg >= 3.0:
		return "Good"
	default:
		return "Satisfactory"
	}
}
