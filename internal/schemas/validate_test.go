package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-compass/internal/types"
)

func TestValidateArtifactValid(t *testing.T) {
	data := []byte(`[{"title": "Data Engineer", "description": "Build pipelines", "match_score": 88}]`)
	assert.NoError(t, ValidateArtifact(types.StageRecommendations, data))
}

func TestValidateArtifactMissingRequiredField(t *testing.T) {
	data := []byte(`[{"title": "Data Engineer"}]`)

	err := ValidateArtifact(types.StageRecommendations, data)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, types.StageRecommendations, validationErr.Stage)
	require.NotEmpty(t, validationErr.Errors)
	assert.Contains(t, validationErr.Error(), "description")
}

func TestValidateArtifactWrongShape(t *testing.T) {
	// Object where the schema demands an array
	data := []byte(`{"title": "Data Engineer"}`)

	err := ValidateArtifact(types.StageActionPlan, data)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestValidateArtifactScoreOutOfRange(t *testing.T) {
	data := []byte(`[{"title": "PM", "description": "Lead", "match_score": 140}]`)

	err := ValidateArtifact(types.StageRecommendations, data)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestValidateArtifactEveryStageHasSchema(t *testing.T) {
	stages := []types.StageID{
		types.StageRecommendations,
		types.StageRoadmap,
		types.StageMarketInsights,
		types.StageActionPlan,
		types.StageLearningPlan,
		types.StageInterviewQuestions,
		types.StageNetworkingStrategy,
	}

	for _, stage := range stages {
		_, err := schemaFiles.ReadFile(string(stage) + ".schema.json")
		assert.NoError(t, err, "stage %s should carry an embedded schema", stage)
	}
}

func TestValidateArtifactUnknownStageTriviallyValid(t *testing.T) {
	assert.NoError(t, ValidateArtifact(types.StageID("mystery"), []byte(`"anything"`)))
}
