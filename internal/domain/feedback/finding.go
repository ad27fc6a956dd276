package feedback

// Category enum
type Category string

const (
	CategoryAccessibility   Category = "accessibility"
	CategoryVisualHierarchy Category = "visual_hierarchy"
	CategoryContent         Category = "content"
	CategoryUIPatterns      Category = "ui_patterns"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryAccessibility,
	CategoryVisualHierarchy,
	CategoryContent,
	CategoryUIPatterns,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryAccessibility, CategoryVisualHierarchy, CategoryContent, CategoryUIPatterns:
		return true
	}
	return false
}

// Severity enum
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow}

func (s Severity) Valid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Role is an audience tag used to route findings to the right stakeholders.
type Role string

const (
	RoleDesigner       Role = "designer"
	RoleReviewer       Role = "reviewer"
	RoleProductManager Role = "product_manager"
	RoleDeveloper      Role = "developer"
)

var Roles = []Role{RoleDesigner, RoleReviewer, RoleProductManager, RoleDeveloper}

func (r Role) Valid() bool {
	switch r {
	case RoleDesigner, RoleReviewer, RoleProductManager, RoleDeveloper:
		return true
	}
	return false
}

// Dimensions is an image's pixel size. Width and height are always positive;
// the storage layer falls back to 800x600 when it cannot decode an image.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Coordinates is a pixel-space bounding box anchored to the owning image.
type Coordinates struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Finding is one critique item.
type Finding struct {
	ID              string      `json:"id"`
	Category        Category    `json:"category"`
	Severity        Severity    `json:"severity"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Coordinates     Coordinates `json:"coordinates"`
	Recommendations []string    `json:"recommendations"`
	Tags            []string    `json:"tags"`
	RelevantRoles   []Role      `json:"relevantRoles"`
}

// HasRole reports whether the finding is addressed to the given role.
func (f Finding) HasRole(role Role) bool {
	for _, r := range f.RelevantRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Result is the immutable snapshot of one completed analysis run.
// It is replaced wholesale on each successful run, never merged.
type Result struct {
	FeedbackItems []Finding `json:"feedbackItems"`
	OverallScore  int       `json:"overallScore"`
	Summary       string    `json:"summary"`
}
