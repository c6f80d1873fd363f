package types

// Roadmap represents a phased transition plan toward a recommended career.
type Roadmap struct {
	CareerTitle string         `json:"career_title"`
	Summary     string         `json:"summary,omitempty"`
	Phases      []RoadmapPhase `json:"phases"`
}

// RoadmapPhase is one time-boxed segment of a roadmap.
type RoadmapPhase struct {
	Name       string   `json:"name"`
	Duration   string   `json:"duration,omitempty"` // e.g. "0-3 months"
	Objectives []string `json:"objectives,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Milestones []string `json:"milestones,omitempty"`
}
