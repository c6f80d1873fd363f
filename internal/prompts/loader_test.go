package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStagePrompts(t *testing.T) {
	stages := []string{
		"recommendations",
		"roadmap",
		"market-insights",
		"action-plan",
		"learning-plan",
		"interview-questions",
		"networking-strategy",
	}

	for _, stage := range stages {
		prompt, err := Get("stages.json", stage)
		require.NoError(t, err, "stage %s", stage)
		assert.NotEmpty(t, prompt)
		assert.Contains(t, prompt, "{{.Profile}}", "stage %s must reference the profile", stage)
	}
}

func TestGetMissingKey(t *testing.T) {
	_, err := Get("stages.json", "no-such-stage")
	assert.ErrorContains(t, err, "not found")
}

func TestGetMissingFile(t *testing.T) {
	_, err := Get("absent.json", "recommendations")
	assert.Error(t, err)
}

func TestMustGetPanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("stages.json", "no-such-stage")
	})
}

func TestFormat(t *testing.T) {
	template := "Profile: {{.Profile}}, target: {{.Career}}"
	result := Format(template, map[string]string{
		"Profile": `{"name": "Alice"}`,
		"Career":  "Data Engineer",
	})

	assert.Equal(t, `Profile: {"name": "Alice"}, target: Data Engineer`, result)
}

func TestFormatLeavesUnknownPlaceholders(t *testing.T) {
	result := Format("{{.Known}} and {{.Unknown}}", map[string]string{"Known": "x"})
	assert.Equal(t, "x and {{.Unknown}}", result)
}
