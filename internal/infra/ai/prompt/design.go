package prompt

import "fmt"

// DesignCritique builds the instruction sent alongside the image. It names
// the four analysis categories and the exact JSON schema the parser expects;
// the capability is still free to wrap the JSON in prose, which the parser
// tolerates.
func DesignCritique(width, height int) string {
	return fmt.Sprintf(`Analyze this UI design screenshot and provide structured feedback. The image dimensions are %dx%d pixels.

Please analyze the design for:
1. Accessibility issues (color contrast, text readability, navigation)
2. Visual hierarchy problems (spacing, alignment, typography)
3. Content and copy quality (tone, clarity, messaging)
4. UI/UX patterns (button placement, user flow, best practices)

For each issue found, provide:
- Category: accessibility, visual_hierarchy, content, or ui_patterns
- Severity: high, medium, or low
- Title: Brief descriptive title
- Description: Detailed explanation of the issue
- Coordinates: x, y, width, height in pixels (be precise)
- Recommendations: 2-3 actionable suggestions
- Tags: Relevant keywords
- Relevant Roles: Which team roles should see this (designer, reviewer, product_manager, developer)

Format your response as JSON with this structure:
{
  "feedbackItems": [
    {
      "id": "unique-id",
      "category": "accessibility",
      "severity": "high",
      "title": "Low color contrast",
      "description": "Text has insufficient contrast against background",
      "coordinates": {"x": 100, "y": 200, "width": 300, "height": 50},
      "recommendations": [
        "Increase text color contrast to meet WCAG AA standards"
      ],
      "tags": ["contrast", "accessibility", "text"],
      "relevantRoles": ["designer", "developer"]
    }
  ],
  "overallScore": 75,
  "summary": "Overall design assessment with key strengths and areas for improvement"
}

Be thorough but concise. Focus on actionable feedback that will help improve the design.`, width, height)
}
