package engine

// RiskScore is the banded severity label derived from a device's finding count.
type RiskScore string

const (
	NoRisk RiskScore = "No Risk"
	Low    RiskScore = "Low"
	Medium RiskScore = "Medium"
	High   RiskScore = "High"
)

// RiskLevels returns the four buckets in ascending order.
func RiskLevels() []RiskScore {
	return []RiskScore{NoRisk, Low, Medium, High}
}

// Score bands a finding count: 0 is No Risk, 1-2 Low, 3-5 Medium, 6 and up High.
func Score(findings int) RiskScore {
	switch {
	case findings <= 0:
		return NoRisk
	case findings <= 2:
		return Low
	case findings <= 5:
		return Medium
	default:
		return High
	}
}
