package feedback

import (
	"fmt"
	"time"
)

// Defaults applied by SanitizeFinding.
const (
	defaultTitle       = "Design Issue"
	defaultDescription = "No description provided"
)

// SanitizeFinding turns an arbitrarily malformed raw item into a well-formed
// Finding. Every required field ends up populated and the enum fields are
// guaranteed to hold one of their declared values. index disambiguates
// generated ids within one batch.
func SanitizeFinding(raw map[string]any, index int, dims Dimensions) Finding {
	if raw == nil {
		raw = map[string]any{}
	}

	f := Finding{
		Recommendations: rawStrings(raw, "recommendations"),
		Tags:            rawStrings(raw, "tags"),
		Coordinates:     NormalizeCoordinates(raw["coordinates"], dims),
	}

	if id, ok := rawString(raw, "id"); ok && id != "" {
		f.ID = id
	} else {
		f.ID = fmt.Sprintf("feedback-%d-%d", time.Now().UnixMilli(), index)
	}

	f.Category = CategoryUIPatterns
	if c, ok := rawString(raw, "category"); ok && Category(c).Valid() {
		f.Category = Category(c)
	}

	f.Severity = SeverityMedium
	if s, ok := rawString(raw, "severity"); ok && Severity(s).Valid() {
		f.Severity = Severity(s)
	}

	f.Title = defaultTitle
	if t, ok := rawString(raw, "title"); ok && t != "" {
		f.Title = t
	}

	f.Description = defaultDescription
	if d, ok := rawString(raw, "description"); ok && d != "" {
		f.Description = d
	}

	for _, r := range rawStrings(raw, "relevantRoles") {
		if Role(r).Valid() {
			f.RelevantRoles = append(f.RelevantRoles, Role(r))
		}
	}
	if len(f.RelevantRoles) == 0 {
		f.RelevantRoles = []Role{RoleDesigner}
	}

	return f
}
