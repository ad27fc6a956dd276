package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	return &Result{
		FeedbackItems: []Finding{
			{
				ID: "1", Category: CategoryAccessibility, Severity: SeverityHigh,
				RelevantRoles: []Role{RoleDesigner, RoleDeveloper},
			},
			{
				ID: "2", Category: CategoryContent, Severity: SeverityMedium,
				RelevantRoles: []Role{RoleProductManager},
			},
			{
				ID: "3", Category: CategoryAccessibility, Severity: SeverityLow,
				RelevantRoles: []Role{RoleDesigner},
			},
		},
		OverallScore: 70,
		Summary:      "sample",
	}
}

func ids(items []Finding) []string {
	out := make([]string, 0, len(items))
	for _, f := range items {
		out = append(out, f.ID)
	}
	return out
}

func TestFilter_EmptyIsIdentity(t *testing.T) {
	got := Filter{}.Apply(sampleResult())
	assert.Equal(t, []string{"1", "2", "3"}, ids(got))
}

func TestFilter_RoleAllIsIdentity(t *testing.T) {
	got := Filter{Role: RoleAll}.Apply(sampleResult())
	assert.Equal(t, []string{"1", "2", "3"}, ids(got))
}

func TestFilter_ByRole(t *testing.T) {
	got := Filter{Role: "designer"}.Apply(sampleResult())
	assert.Equal(t, []string{"1", "3"}, ids(got))
}

func TestFilter_ByCategoryAndSeverityConjunctive(t *testing.T) {
	got := Filter{Category: "accessibility", Severity: "low"}.Apply(sampleResult())
	assert.Equal(t, []string{"3"}, ids(got))
}

func TestFilter_NoMatches(t *testing.T) {
	got := Filter{Role: "reviewer"}.Apply(sampleResult())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilter_NilResult(t *testing.T) {
	got := Filter{Role: "designer"}.Apply(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCountStats(t *testing.T) {
	stats := CountStats(sampleResult())

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByCategory[CategoryAccessibility])
	assert.Equal(t, 1, stats.ByCategory[CategoryContent])
	assert.Equal(t, 0, stats.ByCategory[CategoryVisualHierarchy])
	assert.Equal(t, 1, stats.BySeverity[SeverityHigh])
	assert.Equal(t, 1, stats.BySeverity[SeverityMedium])
	assert.Equal(t, 1, stats.BySeverity[SeverityLow])
	assert.Equal(t, 2, stats.ByRole[RoleDesigner])
	assert.Equal(t, 1, stats.ByRole[RoleDeveloper])
	assert.Equal(t, 0, stats.ByRole[RoleReviewer])
}

func TestCountStats_NilResultZeroFilled(t *testing.T) {
	stats := CountStats(nil)

	assert.Zero(t, stats.Total)
	require.Len(t, stats.ByCategory, 4)
	require.Len(t, stats.BySeverity, 3)
	require.Len(t, stats.ByRole, 4)
	for _, c := range Categories {
		assert.Zero(t, stats.ByCategory[c])
	}
	for _, s := range Severities {
		assert.Zero(t, stats.BySeverity[s])
	}
	for _, r := range Roles {
		assert.Zero(t, stats.ByRole[r])
	}
}
