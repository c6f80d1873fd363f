package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/career-compass/internal/types"
)

func TestPrintRecommendations(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	recs := []types.CareerRecommendation{
		{Title: "Data Engineer", Field: "Technology", MatchScore: 87, KeySkills: []string{"SQL", "Python"}},
		{Title: "Analytics Manager", SalaryRange: "$120k-$150k"},
	}

	p.PrintRecommendations(recs)
	output := buf.String()

	assert.Contains(t, output, "CAREER RECOMMENDATIONS")
	assert.Contains(t, output, "Data Engineer")
	assert.Contains(t, output, "87% match")
	assert.Contains(t, output, "SQL, Python")
	assert.Contains(t, output, "Analytics Manager")
}

func TestPrintRecommendations_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecommendations(nil)

	assert.Empty(t, buf.String())
}

func TestPrintRecommendations_Truncates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	recs := make([]types.CareerRecommendation, 8)
	for i := range recs {
		recs[i] = types.CareerRecommendation{Title: "Role"}
	}

	p.PrintRecommendations(recs)

	assert.Contains(t, buf.String(), "and 3 more")
}

func TestPrintRoadmap(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	roadmap := &types.Roadmap{
		CareerTitle: "Data Engineer",
		Phases: []types.RoadmapPhase{
			{Name: "Foundations", Duration: "3 months", Objectives: []string{"Learn SQL"}},
			{Name: "Portfolio"},
		},
	}

	p.PrintRoadmap(roadmap)
	output := buf.String()

	assert.Contains(t, output, "CAREER ROADMAP")
	assert.Contains(t, output, "Phase 1: Foundations (3 months)")
	assert.Contains(t, output, "Learn SQL")
	assert.Contains(t, output, "Phase 2: Portfolio")
}

func TestPrintRoadmap_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRoadmap(nil)

	assert.Empty(t, buf.String())
}

func TestPrintMarketInsights(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMarketInsights(&types.MarketInsights{
		DemandLevel:    "high",
		TrendingSkills: []string{"dbt", "Spark"},
		TopIndustries:  []string{"Finance"},
	})
	output := buf.String()

	assert.Contains(t, output, "MARKET INSIGHTS")
	assert.Contains(t, output, "high")
	assert.Contains(t, output, "dbt")
	assert.Contains(t, output, "Finance")
}

func TestPrintActionPlan(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintActionPlan([]types.ActionItem{
		{Title: "Update resume", Timeframe: "this week"},
	})
	output := buf.String()

	assert.Contains(t, output, "ACTION PLAN")
	assert.Contains(t, output, "Update resume [this week]")
}

func TestPrintLearningPlan(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintLearningPlan(&types.LearningPlan{
		CareerTitle: "Data Engineer",
		Stages: []types.LearningStage{
			{Name: "SQL Basics", DurationWeeks: 4, Topics: []string{"joins", "indexes"}},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "LEARNING PLAN")
	assert.Contains(t, output, "SQL Basics (4 weeks)")
	assert.Contains(t, output, "joins, indexes")
}

func TestPrintInterviewQuestions(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintInterviewQuestions([]types.InterviewQuestion{
		{Question: "Tell me about a pipeline you built", Category: "behavioral"},
	})
	output := buf.String()

	assert.Contains(t, output, "INTERVIEW PREP")
	assert.Contains(t, output, "behavioral")
}

func TestPrintNetworkingStrategy(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintNetworkingStrategy(&types.NetworkingStrategy{
		Communities:   []string{"Data Eng Slack"},
		WeeklyActions: []string{"Reach out to two alumni"},
	})
	output := buf.String()

	assert.Contains(t, output, "NETWORKING STRATEGY")
	assert.Contains(t, output, "Data Eng Slack")
	assert.Contains(t, output, "Reach out to two alumni")
}

func TestPrintStageEvent(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintStageEvent(types.StageRoadmap, types.StatusGenerating, "generation started")

	assert.Contains(t, buf.String(), "roadmap")
	assert.Contains(t, buf.String(), "generation started")
}
