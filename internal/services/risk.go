package services

const (
	RiskLabelHigh   = "High"
	RiskLabelMedium = "Med"
	RiskLabelLow    = "Low"
)

// RiskScore is an additive heuristic for how likely a dose is to be
// missed, saturating at 1.0. It is a display aid, not a clinical
// signal.
func RiskScore(recentMisses int, hour int, isWeekend bool) float64 {
	risk := 0.1
	if recentMisses > 0 {
		risk += 0.3
	}
	if isWeekend {
		risk += 0.2
	}
	if hour >= 20 {
		risk += 0.2
	}
	if risk > 1.0 {
		risk = 1.0
	}
	return risk
}

func RiskLabel(risk float64) string {
	switch {
	case risk >= 0.7:
		return RiskLabelHigh
	case risk >= 0.4:
		return RiskLabelMedium
	default:
		return RiskLabelLow
	}
}
