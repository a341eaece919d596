package hos

import (
	"eld-trip-service/internal/model"
)

// Regulatory limits for property-carrying CMV drivers, 49 CFR Part 395.
// All durations in minutes, distances in miles.
const (
	MaxDrivingMinutes        = 11 * 60 // §395.3(a)(3)
	WindowMinutes            = 14 * 60 // §395.3(a)(2)
	BreakAfterDrivingMinutes = 8 * 60  // §395.3(a)(3)(ii)
	BreakMinutes             = 30
	MinOffDutyMinutes        = 10 * 60 // §395.3(a)(1)
	CycleLimitMinutes        = 70 * 60 // §395.3(b)
	CycleDays                = 8
	RestartMinutes           = 34 * 60 // §395.3(c)

	// Operational assumptions carried over from the trip planner: one hour
	// each for pickup and dropoff, one-hour fuel stop every 1000 miles.
	PickupMinutes     = 60
	DropoffMinutes    = 60
	FuelStopMinutes   = 60
	FuelIntervalMiles = 1000.0

	// Relaxations granted by exceptions.
	AdverseExtensionMinutes = 2 * 60  // §395.1(b)(1)
	SixteenHourWindow       = 16 * 60 // §395.1(o)
	ConstructionRestart     = 24 * 60 // §395.1(m)
)

// Rule is one entry of the closed HOS rule table.
type Rule struct {
	ID           model.RuleID
	Title        string
	Citation     string
	LimitHours   float64
	LimitMinutes int
	Severity     model.ViolationSeverity
	Remedy       string
}

// The rule set is fixed by regulation; a closed table keeps violation
// emission exhaustive and lets tests enumerate it.
var ruleTable = []Rule{
	{
		ID:           model.RuleDrivingLimit,
		Title:        "11-Hour Driving Limit",
		Citation:     "§395.3(a)(3)",
		LimitHours:   11,
		LimitMinutes: MaxDrivingMinutes,
		Severity:     model.ViolationSeverityHigh,
		Remedy:       "Stop driving; take 10 consecutive hours off duty before driving again",
	},
	{
		ID:           model.RuleWindowLimit,
		Title:        "14-Hour Driving Window",
		Citation:     "§395.3(a)(2)",
		LimitHours:   14,
		LimitMinutes: WindowMinutes,
		Severity:     model.ViolationSeverityHigh,
		Remedy:       "End the duty day; the window does not pause for breaks",
	},
	{
		ID:           model.RuleBreakRequirement,
		Title:        "30-Minute Break Requirement",
		Citation:     "§395.3(a)(3)(ii)",
		LimitHours:   8,
		LimitMinutes: BreakAfterDrivingMinutes,
		Severity:     model.ViolationSeverityMedium,
		Remedy:       "Take a break of at least 30 consecutive minutes",
	},
	{
		ID:           model.RuleCycleLimit,
		Title:        "70-Hour/8-Day Limit",
		Citation:     "§395.3(b)",
		LimitHours:   70,
		LimitMinutes: CycleLimitMinutes,
		Severity:     model.ViolationSeverityHigh,
		Remedy:       "34-hour restart required",
	},
	{
		ID:           model.RuleMinOffDuty,
		Title:        "10-Hour Off-Duty Requirement",
		Citation:     "§395.3(a)(1)",
		LimitHours:   10,
		LimitMinutes: MinOffDutyMinutes,
		Severity:     model.ViolationSeverityHigh,
		Remedy:       "Extend the rest period to 10 consecutive hours",
	},
	{
		ID:           model.RuleRestart,
		Title:        "34-Hour Restart",
		Citation:     "§395.3(c)",
		LimitHours:   34,
		LimitMinutes: RestartMinutes,
		Severity:     model.ViolationSeverityMedium,
		Remedy:       "Take 34 consecutive hours off duty to reset the 8-day cycle",
	},
}

// Rules returns the full rule table in a stable order.
func Rules() []Rule {
	out := make([]Rule, len(ruleTable))
	copy(out, ruleTable)
	return out
}

// LookupRule finds a rule by ID.
func LookupRule(id model.RuleID) (Rule, bool) {
	for _, r := range ruleTable {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// LegalReferences is the citation list attached to every trip result.
func LegalReferences() []model.LegalReference {
	refs := make([]model.LegalReference, 0, len(ruleTable))
	for _, r := range ruleTable {
		refs = append(refs, model.LegalReference{
			Section:   "49 CFR " + r.Citation,
			Title:     r.Title,
			Reference: "FMCSA Hours of Service of Drivers, Part 395",
		})
	}
	return refs
}

// violationFor builds a Violation for a breached rule. actualMinutes is the
// observed value; for MinOffDuty it is the too-short rest, for everything
// else the over-limit accumulation.
func violationFor(id model.RuleID, actualMinutes int) model.Violation {
	r, _ := LookupRule(id)
	return model.Violation{
		RuleID:   r.ID,
		Rule:     r.Title + " (" + r.Citation + ")",
		Citation: r.Citation,
		Limit:    r.LimitHours,
		Actual:   RoundHours(actualMinutes),
		Severity: r.Severity,
		Action:   r.Remedy,
	}
}
