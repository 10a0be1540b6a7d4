package core

// RiskLevel is an ordinal severity attached to a risk assessment. Higher
// values are more severe.
type RiskLevel int

const (
	// RiskLow covers routine, easily reversible operations.
	RiskLow RiskLevel = iota
	// RiskMedium covers operations with limited blast radius.
	RiskMedium
	// RiskHigh covers destructive or hard-to-reverse operations.
	RiskHigh
	// RiskCritical covers operations that must practically never auto-run.
	RiskCritical
)

// String returns the canonical lowercase name of the level.
func (l RiskLevel) String() string {
	switch l {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	case RiskCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// RiskAssessment is a category/severity judgment about an operation. It is
// produced by an external risk-analysis collaborator (usually the planner)
// and consumed only by the approval gate.
type RiskAssessment struct {
	Category  string    `json:"category"`
	Level     RiskLevel `json:"level"`
	Rationale string    `json:"rationale,omitempty"`
}
