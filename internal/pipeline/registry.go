// Package pipeline provides the high-level orchestration for career content
// generation: stage dependencies, per-stage status tracking, and debounced
// session persistence.
package pipeline

import "github.com/jonathan/career-compass/internal/types"

// StageDefinition defines metadata for a generation stage.
type StageDefinition struct {
	ID    types.StageID
	Shape types.StageShape
	// MaxTokens is the output-size budget sent to the content service:
	// short for list-shaped outputs, long for deeply nested plan structures.
	MaxTokens    int
	Dependencies []types.StageID
}

// StageRegistry holds all stage definitions. Recommendations is the dependency
// root; every other stage becomes eligible once it is ready with at least one
// item. Eligibility only lifts the guard — nothing is auto-triggered.
var StageRegistry = map[types.StageID]StageDefinition{
	types.StageRecommendations: {
		ID:        types.StageRecommendations,
		Shape:     types.ShapeList,
		MaxTokens: 1500,
	},
	types.StageRoadmap: {
		ID:           types.StageRoadmap,
		Shape:        types.ShapeObject,
		MaxTokens:    3000,
		Dependencies: []types.StageID{types.StageRecommendations},
	},
	types.StageMarketInsights: {
		ID:           types.StageMarketInsights,
		Shape:        types.ShapeObject,
		MaxTokens:    2000,
		Dependencies: []types.StageID{types.StageRecommendations},
	},
	types.StageActionPlan: {
		ID:           types.StageActionPlan,
		Shape:        types.ShapeList,
		MaxTokens:    1500,
		Dependencies: []types.StageID{types.StageRecommendations},
	},
	types.StageLearningPlan: {
		ID:           types.StageLearningPlan,
		Shape:        types.ShapeObject,
		MaxTokens:    3000,
		Dependencies: []types.StageID{types.StageRecommendations},
	},
	types.StageInterviewQuestions: {
		ID:           types.StageInterviewQuestions,
		Shape:        types.ShapeList,
		MaxTokens:    1500,
		Dependencies: []types.StageID{types.StageRecommendations},
	},
	types.StageNetworkingStrategy: {
		ID:           types.StageNetworkingStrategy,
		Shape:        types.ShapeObject,
		MaxTokens:    2000,
		Dependencies: []types.StageID{types.StageRecommendations},
	},
}

// stageOrder is the presentation order for CLI output and GenerateAll.
var stageOrder = []types.StageID{
	types.StageRecommendations,
	types.StageRoadmap,
	types.StageMarketInsights,
	types.StageActionPlan,
	types.StageLearningPlan,
	types.StageInterviewQuestions,
	types.StageNetworkingStrategy,
}

// Stages returns all stage identifiers in presentation order.
func Stages() []types.StageID {
	out := make([]types.StageID, len(stageOrder))
	copy(out, stageOrder)
	return out
}
