// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-compass/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRecommendations outputs the matched career paths with scores.
func (p *Printer) PrintRecommendations(recs []types.CareerRecommendation) {
	if len(recs) == 0 {
		return
	}

	var sb strings.Builder

	count := min(len(recs), maxItemsToShow)
	for i := 0; i < count; i++ {
		rec := recs[i]
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, rec.Title))
		if rec.MatchScore > 0 {
			sb.WriteString(fmt.Sprintf(" (%d%% match)", rec.MatchScore))
		}
		sb.WriteString("\n")
		if rec.Field != "" {
			sb.WriteString(fmt.Sprintf("   Field:  %s\n", rec.Field))
		}
		if rec.SalaryRange != "" {
			sb.WriteString(fmt.Sprintf("   Salary: %s\n", rec.SalaryRange))
		}
		if len(rec.KeySkills) > 0 {
			sb.WriteString(fmt.Sprintf("   Skills: %s\n", strings.Join(rec.KeySkills, ", ")))
		}
	}
	if len(recs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(recs)-maxItemsToShow))
	}

	p.printBox("CAREER RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRoadmap outputs the phased transition roadmap.
func (p *Printer) PrintRoadmap(roadmap *types.Roadmap) {
	if roadmap == nil || len(roadmap.Phases) == 0 {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Target: %s\n", roadmap.CareerTitle))
	sb.WriteString("\n")

	for i, phase := range roadmap.Phases {
		sb.WriteString(fmt.Sprintf("Phase %d: %s", i+1, phase.Name))
		if phase.Duration != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", phase.Duration))
		}
		sb.WriteString("\n")
		count := min(len(phase.Objectives), 3)
		for j := 0; j < count; j++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", phase.Objectives[j]))
		}
		if len(phase.Objectives) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(phase.Objectives)-3))
		}
	}

	p.printBox("CAREER ROADMAP", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMarketInsights outputs the labor-market summary.
func (p *Printer) PrintMarketInsights(insights *types.MarketInsights) {
	if insights == nil {
		return
	}

	var sb strings.Builder

	if insights.DemandLevel != "" {
		sb.WriteString(fmt.Sprintf("Demand:  %s\n", insights.DemandLevel))
	}
	if insights.RemoteOutlook != "" {
		sb.WriteString(fmt.Sprintf("Remote:  %s\n", insights.RemoteOutlook))
	}
	if len(insights.TrendingSkills) > 0 {
		sb.WriteString("\nTrending Skills:\n")
		count := min(len(insights.TrendingSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", insights.TrendingSkills[i]))
		}
	}
	if len(insights.TopIndustries) > 0 {
		sb.WriteString("\nTop Industries:\n")
		count := min(len(insights.TopIndustries), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", insights.TopIndustries[i]))
		}
	}

	p.printBox("MARKET INSIGHTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintActionPlan outputs the concrete next steps.
func (p *Printer) PrintActionPlan(items []types.ActionItem) {
	if len(items) == 0 {
		return
	}

	var sb strings.Builder

	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		item := items[i]
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, item.Title))
		if item.Timeframe != "" {
			sb.WriteString(fmt.Sprintf(" [%s]", item.Timeframe))
		}
		sb.WriteString("\n")
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(items)-maxItemsToShow))
	}

	p.printBox("ACTION PLAN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintLearningPlan outputs the structured study path.
func (p *Printer) PrintLearningPlan(plan *types.LearningPlan) {
	if plan == nil || len(plan.Stages) == 0 {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Target: %s\n\n", plan.CareerTitle))
	for i, stage := range plan.Stages {
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, stage.Name))
		if stage.DurationWeeks > 0 {
			sb.WriteString(fmt.Sprintf(" (%d weeks)", stage.DurationWeeks))
		}
		sb.WriteString("\n")
		if len(stage.Topics) > 0 {
			sb.WriteString(fmt.Sprintf("   Topics: %s\n", strings.Join(stage.Topics, ", ")))
		}
	}

	p.printBox("LEARNING PLAN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintInterviewQuestions outputs preparation questions by category.
func (p *Printer) PrintInterviewQuestions(questions []types.InterviewQuestion) {
	if len(questions) == 0 {
		return
	}

	var sb strings.Builder

	count := min(len(questions), maxItemsToShow)
	for i := 0; i < count; i++ {
		q := questions[i]
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, q.Question))
		if q.Category != "" {
			sb.WriteString(fmt.Sprintf(" [%s]", q.Category))
		}
		sb.WriteString("\n")
	}
	if len(questions) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(questions)-maxItemsToShow))
	}

	p.printBox("INTERVIEW PREP", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintNetworkingStrategy outputs the connection-building plan.
func (p *Printer) PrintNetworkingStrategy(strategy *types.NetworkingStrategy) {
	if strategy == nil {
		return
	}

	var sb strings.Builder

	if len(strategy.Communities) > 0 {
		sb.WriteString("Communities:\n")
		count := min(len(strategy.Communities), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", strategy.Communities[i]))
		}
		sb.WriteString("\n")
	}
	if len(strategy.WeeklyActions) > 0 {
		sb.WriteString("Weekly Actions:\n")
		count := min(len(strategy.WeeklyActions), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", strategy.WeeklyActions[i]))
		}
	}

	p.printBox("NETWORKING STRATEGY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStageEvent outputs a one-line progress update for a stage transition.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStageEvent(stage types.StageID, status types.StageStatus, message string) {
	fmt.Fprintf(p.out, "[%s] %s: %s\n", status, stage, message)
}
