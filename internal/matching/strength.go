package matching

// Strength labels a score for display.
func Strength(score float64) string {
	switch {
	case score >= 80:
		return "Excellent Match"
	case score >= 60:
		return "Good Match"
	case score >= 40:
		return "Fair Match"
	default:
		return "Weak Match"
	}
}
