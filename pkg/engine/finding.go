package engine

// Finding is one rule violation tied to one device.
type Finding struct {
	RuleID         string   `json:"rule_id"`
	Title          string   `json:"finding"`
	Device         string   `json:"file"`
	RiskDesc       string   `json:"risk_desc"`
	Recommendation string   `json:"recommendation"`
	Category       Category `json:"category"`
}
