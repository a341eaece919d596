package model

type RuleID string

const (
	RuleDrivingLimit     RuleID = "DRIVING_LIMIT_11H"
	RuleWindowLimit      RuleID = "WINDOW_LIMIT_14H"
	RuleBreakRequirement RuleID = "BREAK_30MIN"
	RuleCycleLimit       RuleID = "CYCLE_70H_8D"
	RuleMinOffDuty       RuleID = "MIN_OFF_DUTY_10H"
	RuleRestart          RuleID = "RESTART_34H"
)

type ViolationSeverity string

const (
	ViolationSeverityLow    ViolationSeverity = "LOW"
	ViolationSeverityMedium ViolationSeverity = "MEDIUM"
	ViolationSeverityHigh   ViolationSeverity = "HIGH"
)

// Violation is a single HOS breach with its regulatory basis.
// Limit and Actual are in hours.
type Violation struct {
	RuleID   RuleID            `json:"rule_id"`
	Rule     string            `json:"rule"`
	Citation string            `json:"citation"`
	Limit    float64           `json:"limit"`
	Actual   float64           `json:"actual"`
	Severity ViolationSeverity `json:"severity"`
	Action   string            `json:"action,omitempty"`
}

// ComplianceSummary is the trip-level compliance verdict.
type ComplianceSummary struct {
	IsCompliant         bool        `json:"is_compliant"`
	ViolationCount      int         `json:"violation_count"`
	TotalTripHours      float64     `json:"total_trip_hours"`
	TotalDays           int         `json:"total_days"`
	Requires34HrRestart bool        `json:"requires_34hr_restart"`
	Violations          []Violation `json:"violations"`
}
