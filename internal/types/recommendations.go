package types

// CareerRecommendation represents one suggested career path matched to a profile.
type CareerRecommendation struct {
	Title         string   `json:"title"`
	Field         string   `json:"field,omitempty"`
	Description   string   `json:"description"`
	MatchScore    int      `json:"match_score,omitempty"` // 0-100 fit against the profile
	KeySkills     []string `json:"key_skills,omitempty"`
	SalaryRange   string   `json:"salary_range,omitempty"`
	GrowthOutlook string   `json:"growth_outlook,omitempty"`
}
