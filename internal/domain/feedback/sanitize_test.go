package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDims = Dimensions{Width: 800, Height: 600}

func TestSanitizeFinding_EmptyInput(t *testing.T) {
	f := SanitizeFinding(map[string]any{}, 0, testDims)

	assert.NotEmpty(t, f.ID)
	assert.Equal(t, CategoryUIPatterns, f.Category)
	assert.Equal(t, SeverityMedium, f.Severity)
	assert.Equal(t, "Design Issue", f.Title)
	assert.Equal(t, "No description provided", f.Description)
	assert.Equal(t, DefaultBox, f.Coordinates)
	assert.Empty(t, f.Recommendations)
	assert.Empty(t, f.Tags)
	assert.Equal(t, []Role{RoleDesigner}, f.RelevantRoles)
}

func TestSanitizeFinding_NilInput(t *testing.T) {
	f := SanitizeFinding(nil, 3, testDims)

	assert.NotEmpty(t, f.ID)
	assert.Equal(t, []Role{RoleDesigner}, f.RelevantRoles)
}

func TestSanitizeFinding_ValidFieldsPassThrough(t *testing.T) {
	raw := map[string]any{
		"id":          "finding-1",
		"category":    "accessibility",
		"severity":    "high",
		"title":       "Low color contrast",
		"description": "Text has insufficient contrast against background",
		"coordinates": map[string]any{
			"x": float64(100), "y": float64(200), "width": float64(300), "height": float64(50),
		},
		"recommendations": []any{"Increase contrast"},
		"tags":            []any{"contrast", "text"},
		"relevantRoles":   []any{"designer", "developer"},
	}

	f := SanitizeFinding(raw, 0, testDims)

	assert.Equal(t, "finding-1", f.ID)
	assert.Equal(t, CategoryAccessibility, f.Category)
	assert.Equal(t, SeverityHigh, f.Severity)
	assert.Equal(t, "Low color contrast", f.Title)
	assert.Equal(t, Coordinates{X: 100, Y: 200, Width: 300, Height: 50}, f.Coordinates)
	assert.Equal(t, []string{"Increase contrast"}, f.Recommendations)
	assert.Equal(t, []string{"contrast", "text"}, f.Tags)
	assert.Equal(t, []Role{RoleDesigner, RoleDeveloper}, f.RelevantRoles)
}

func TestSanitizeFinding_InvalidEnumsFallBack(t *testing.T) {
	raw := map[string]any{
		"category":      "seo",
		"severity":      "catastrophic",
		"relevantRoles": []any{"intern", "ceo"},
	}

	f := SanitizeFinding(raw, 0, testDims)

	assert.Equal(t, CategoryUIPatterns, f.Category)
	assert.Equal(t, SeverityMedium, f.Severity)
	assert.Equal(t, []Role{RoleDesigner}, f.RelevantRoles)
}

func TestSanitizeFinding_MixedRolesKeepsValidOnes(t *testing.T) {
	raw := map[string]any{
		"relevantRoles": []any{"intern", "reviewer", "product_manager", 42},
	}

	f := SanitizeFinding(raw, 0, testDims)
	assert.Equal(t, []Role{RoleReviewer, RoleProductManager}, f.RelevantRoles)
}

func TestSanitizeFinding_GeneratedIDsUniqueWithinBatch(t *testing.T) {
	a := SanitizeFinding(map[string]any{}, 0, testDims)
	b := SanitizeFinding(map[string]any{}, 1, testDims)

	require.NotEmpty(t, a.ID)
	require.NotEmpty(t, b.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

// Totality: whatever subset of fields is missing or mistyped, every
// required field comes back populated and enums hold declared values.
func TestSanitizeFinding_Totality(t *testing.T) {
	inputs := []map[string]any{
		{"title": ""},
		{"description": 12},
		{"category": 3.5, "severity": []any{"high"}},
		{"coordinates": "top left"},
		{"recommendations": "do better", "tags": map[string]any{}},
		{"relevantRoles": []any{}},
	}

	for i, raw := range inputs {
		f := SanitizeFinding(raw, i, testDims)

		assert.NotEmpty(t, f.ID)
		assert.True(t, f.Category.Valid())
		assert.True(t, f.Severity.Valid())
		assert.NotEmpty(t, f.Title)
		assert.NotEmpty(t, f.Description)
		assert.NotEmpty(t, f.RelevantRoles)
		for _, r := range f.RelevantRoles {
			assert.True(t, r.Valid())
		}
		assert.NotNil(t, f.Recommendations)
		assert.NotNil(t, f.Tags)
	}
}
