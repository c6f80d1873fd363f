package types

// MarketInsights summarizes labor-market conditions for the recommended paths.
type MarketInsights struct {
	DemandLevel      string            `json:"demand_level,omitempty"` // e.g. "high", "moderate"
	TrendingSkills   []string          `json:"trending_skills,omitempty"`
	TopIndustries    []string          `json:"top_industries,omitempty"`
	SalaryBenchmarks map[string]string `json:"salary_benchmarks,omitempty"` // role -> range
	RemoteOutlook    string            `json:"remote_outlook,omitempty"`
	Summary          string            `json:"summary,omitempty"`
}

// ActionItem is one concrete next step in the action plan.
type ActionItem struct {
	Timeframe   string   `json:"timeframe,omitempty"` // e.g. "this week", "within 30 days"
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Resources   []string `json:"resources,omitempty"`
}

// LearningPlan lays out a structured study path for the top recommendation.
type LearningPlan struct {
	CareerTitle string          `json:"career_title"`
	Stages      []LearningStage `json:"stages"`
}

// LearningStage is one block of the learning plan.
type LearningStage struct {
	Name          string   `json:"name"`
	DurationWeeks int      `json:"duration_weeks,omitempty"`
	Topics        []string `json:"topics,omitempty"`
	Resources     []string `json:"resources,omitempty"`
}

// InterviewQuestion is one preparation question with answering guidance.
type InterviewQuestion struct {
	Question string `json:"question"`
	Category string `json:"category,omitempty"` // e.g. "behavioral", "technical"
	Guidance string `json:"guidance,omitempty"`
}

// NetworkingStrategy describes how to build professional connections in the field.
type NetworkingStrategy struct {
	Summary       string   `json:"summary,omitempty"`
	Communities   []string `json:"communities,omitempty"`
	Events        []string `json:"events,omitempty"`
	WeeklyActions []string `json:"weekly_actions,omitempty"`
	OutreachTips  []string `json:"outreach_tips,omitempty"`
}
