// Package schemas provides JSON Schema validation for generated stage
// artifacts. Schemas are embedded at compile time, one per stage.
package schemas

import (
	"fmt"
	"strings"

	"embed"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/career-compass/internal/types"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// ValidationError represents a schema validation failure with field paths.
type ValidationError struct {
	Stage  types.StageID
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("artifact for stage %s failed validation:\n", ve.Stage))
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateArtifact validates normalized artifact data against the stage's
// schema. A stage without an embedded schema validates trivially. Callers
// treat a validation failure as diagnostic only; it never blocks a stage.
func ValidateArtifact(stage types.StageID, data []byte) error {
	schemaContent, err := schemaFiles.ReadFile(fmt.Sprintf("%s.schema.json", stage))
	if err != nil {
		return nil
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaContent)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed to run for stage %s: %w", stage, err)
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Stage:  stage,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
