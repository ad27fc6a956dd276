package feedback

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

const (
	defaultScore   = 75
	fallbackScore  = 50
	defaultSummary = "Design analysis completed"
)

// ParseResponse extracts a structured analysis from the capability's raw
// text output. The output is usually prose-wrapped JSON, so the first
// balanced JSON object substring is located and decoded; individual items
// are then sanitized field by field. When no decodable JSON is present at
// all, a whole-result fallback is returned instead. Either way the caller
// always gets a structurally valid Result; parse problems never surface
// as errors.
func ParseResponse(text string, dims Dimensions) Result {
	sub, ok := extractJSONObject(text)
	if !ok {
		return fallbackResult(dims)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(sub), &body); err != nil {
		return fallbackResult(dims)
	}

	items := []Finding{}
	if arr, ok := body["feedbackItems"].([]any); ok {
		for i, v := range arr {
			m, _ := v.(map[string]any)
			items = append(items, SanitizeFinding(m, i, dims))
		}
	}

	score := defaultScore
	if n, ok := rawNumber(body, "overallScore"); ok {
		score = clamp(int(math.Round(n)), 0, 100)
	}

	summary := defaultSummary
	if s, ok := rawString(body, "summary"); ok && s != "" {
		summary = s
	}

	return Result{FeedbackItems: items, OverallScore: score, Summary: summary}
}

// fallbackResult is returned when the capability output carried no usable
// JSON: one synthetic finding spanning a band at the top of the image,
// flagged for manual review.
func fallbackResult(dims Dimensions) Result {
	return Result{
		FeedbackItems: []Finding{{
			ID:          fmt.Sprintf("fallback-%d", time.Now().UnixMilli()),
			Category:    CategoryUIPatterns,
			Severity:    SeverityMedium,
			Title:       "Analysis Incomplete",
			Description: "AI analysis could not be parsed properly. Please review manually.",
			Coordinates: Coordinates{X: 0, Y: 0, Width: dims.Width, Height: 50},
			Recommendations: []string{
				"Review the design manually for potential improvements",
			},
			Tags:          []string{"manual-review"},
			RelevantRoles: []Role{RoleDesigner, RoleReviewer},
		}},
		OverallScore: fallbackScore,
		Summary:      "AI analysis encountered an error. Manual review recommended.",
	}
}

// extractJSONObject returns the first balanced {...} substring, honoring
// string literals and escapes so braces inside values don't break the scan.
func extractJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if start == -1 {
			if c == '{' {
				start = i
				depth = 1
			}
			continue
		}
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}
