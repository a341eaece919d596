package hos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eld-trip-service/internal/model"
)

func TestRuleTableCitations(t *testing.T) {
	want := map[model.RuleID]string{
		model.RuleDrivingLimit:     "§395.3(a)(3)",
		model.RuleWindowLimit:      "§395.3(a)(2)",
		model.RuleBreakRequirement: "§395.3(a)(3)(ii)",
		model.RuleCycleLimit:       "§395.3(b)",
		model.RuleMinOffDuty:       "§395.3(a)(1)",
		model.RuleRestart:          "§395.3(c)",
	}

	rules := Rules()
	require.Len(t, rules, len(want))
	for _, r := range rules {
		assert.Equal(t, want[r.ID], r.Citation, "citation for %s", r.ID)
		assert.Equal(t, r.LimitHours*60, float64(r.LimitMinutes), "hour and minute limits disagree for %s", r.ID)
		assert.NotEmpty(t, r.Remedy)
	}
}

func TestLookupRule(t *testing.T) {
	r, ok := LookupRule(model.RuleCycleLimit)
	require.True(t, ok)
	assert.Equal(t, "70-Hour/8-Day Limit", r.Title)
	assert.Equal(t, 70.0, r.LimitHours)

	_, ok = LookupRule(model.RuleID("NO_SUCH_RULE"))
	assert.False(t, ok)
}

func TestViolationFor(t *testing.T) {
	v := violationFor(model.RuleDrivingLimit, 720)
	assert.Equal(t, model.RuleDrivingLimit, v.RuleID)
	assert.Equal(t, "§395.3(a)(3)", v.Citation)
	assert.Equal(t, 11.0, v.Limit)
	assert.Equal(t, 12.0, v.Actual)
	assert.Equal(t, model.ViolationSeverityHigh, v.Severity)
	assert.Contains(t, v.Rule, "11-Hour Driving Limit")
}

func TestLegalReferences(t *testing.T) {
	refs := LegalReferences()
	require.Len(t, refs, 6)
	for _, ref := range refs {
		assert.Contains(t, ref.Section, "49 CFR §395.")
		assert.Equal(t, "FMCSA Hours of Service of Drivers, Part 395", ref.Reference)
	}
}
