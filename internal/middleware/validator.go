package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation for identifiers and query parameters

var (
	projectIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
	designIDPattern  = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)
)

// ValidateProjectID validates project ID format
func ValidateProjectID(projectID string) error {
	if projectID == "" {
		return fmt.Errorf("project ID cannot be empty")
	}
	if !projectIDPattern.MatchString(projectID) {
		return fmt.Errorf("invalid project ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// ValidateDesignID validates design ID format (UUID)
func ValidateDesignID(designID string) error {
	if designID == "" {
		return fmt.Errorf("design ID cannot be empty")
	}
	if !designIDPattern.MatchString(strings.ToLower(designID)) {
		return fmt.Errorf("invalid design ID format")
	}
	return nil
}

// ValidateImageContentType accepts image/* uploads only
func ValidateImageContentType(contentType string) error {
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("only image files are allowed")
	}
	return nil
}

// ValidateFeedbackFilter checks filter query parameters against the known
// enum values. Empty values and the "all" role sentinel pass through.
func ValidateFeedbackFilter(role, category, severity string) error {
	if role != "" && role != "all" {
		switch role {
		case "designer", "reviewer", "product_manager", "developer":
		default:
			return fmt.Errorf("invalid role: %s (allowed: designer, reviewer, product_manager, developer, all)", role)
		}
	}
	if category != "" {
		switch category {
		case "accessibility", "visual_hierarchy", "content", "ui_patterns":
		default:
			return fmt.Errorf("invalid category: %s (allowed: accessibility, visual_hierarchy, content, ui_patterns)", category)
		}
	}
	if severity != "" {
		switch severity {
		case "high", "medium", "low":
		default:
			return fmt.Errorf("invalid severity: %s (allowed: high, medium, low)", severity)
		}
	}
	return nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
