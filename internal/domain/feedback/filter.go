package feedback

// RoleAll is the sentinel meaning "do not filter by role".
const RoleAll = "all"

// Filter narrows a result's findings. Empty fields match everything;
// conditions combine conjunctively.
type Filter struct {
	Role     string
	Category string
	Severity string
}

// Apply returns the findings matching the filter, preserving the order the
// parser produced. With no conditions set it returns all findings.
func (f Filter) Apply(result *Result) []Finding {
	if result == nil {
		return []Finding{}
	}
	out := []Finding{}
	for _, item := range result.FeedbackItems {
		if f.Role != "" && f.Role != RoleAll && !item.HasRole(Role(f.Role)) {
			continue
		}
		if f.Category != "" && item.Category != Category(f.Category) {
			continue
		}
		if f.Severity != "" && item.Severity != Severity(f.Severity) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Stats is the aggregate-count view used for the statistics display.
// Every bucket is present even when zero.
type Stats struct {
	Total      int              `json:"total"`
	ByCategory map[Category]int `json:"byCategory"`
	BySeverity map[Severity]int `json:"bySeverity"`
	ByRole     map[Role]int     `json:"byRole"`
}

// CountStats tallies a result's findings by category, severity and role.
// A nil result yields zero-filled buckets.
func CountStats(result *Result) Stats {
	s := Stats{
		ByCategory: make(map[Category]int, len(Categories)),
		BySeverity: make(map[Severity]int, len(Severities)),
		ByRole:     make(map[Role]int, len(Roles)),
	}
	for _, c := range Categories {
		s.ByCategory[c] = 0
	}
	for _, sev := range Severities {
		s.BySeverity[sev] = 0
	}
	for _, r := range Roles {
		s.ByRole[r] = 0
	}
	if result == nil {
		return s
	}
	s.Total = len(result.FeedbackItems)
	for _, item := range result.FeedbackItems {
		s.ByCategory[item.Category]++
		s.BySeverity[item.Severity]++
		for _, r := range item.RelevantRoles {
			s.ByRole[r]++
		}
	}
	return s
}
