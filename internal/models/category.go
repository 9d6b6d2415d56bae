package models

// Category is one ratable aspect within a template.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// LegacyCategories is the fixed category set from before custom templates
// existed. Submissions for users without templates are still validated
// against it, and its labels are the fallback mapping for dashboards.
var LegacyCategories = []Category{
	{ID: "service_quality", Label: "Service Quality"},
	{ID: "response_time", Label: "Response Time"},
	{ID: "problem_resolution", Label: "Problem Resolution"},
	{ID: "overall_experience", Label: "Overall Experience"},
}

// IsLegacyCategory reports whether id belongs to the fixed legacy set.
func IsLegacyCategory(id string) bool {
	for _, c := range LegacyCategories {
		if c.ID == id {
			return true
		}
	}
	return false
}
