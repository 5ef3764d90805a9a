// Package schemas validates model replies against the JSON Schemas for the
// structured analysis shapes before they are decoded into typed results.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// TextAnalysisSchema describes the object the model must return for text
// analysis. Scores and list fields are all required; extra fields are
// tolerated since models occasionally add commentary keys.
const TextAnalysisSchema = `{
	"type": "object",
	"required": ["strengths", "weaknesses", "unique_offers", "recommendations", "summary"],
	"properties": {
		"strengths":       {"type": "array", "items": {"type": "string"}},
		"weaknesses":      {"type": "array", "items": {"type": "string"}},
		"unique_offers":   {"type": "array", "items": {"type": "string"}},
		"recommendations": {"type": "array", "items": {"type": "string"}},
		"summary":         {"type": "string"}
	}
}`

// ImageAnalysisSchema describes the object the model must return for image
// analysis. Both scores are integers in [0,10].
const ImageAnalysisSchema = `{
	"type": "object",
	"required": ["description", "marketing_insights", "visual_style_score", "visual_style_analysis", "design_score", "animation_potential", "recommendations"],
	"properties": {
		"description":           {"type": "string"},
		"marketing_insights":    {"type": "array", "items": {"type": "string"}},
		"visual_style_score":    {"type": "integer", "minimum": 0, "maximum": 10},
		"visual_style_analysis": {"type": "string"},
		"design_score":          {"type": "integer", "minimum": 0, "maximum": 10},
		"animation_potential":   {"type": "string"},
		"recommendations":       {"type": "array", "items": {"type": "string"}}
	}
}`

// ValidationError reports schema violations with their field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single violation at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("schema validation failed:")
	for _, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %s: %s;", err.Field, err.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// Validate checks a JSON document against a schema string. Returns a
// *ValidationError listing every violation, or an error when the schema or
// document itself cannot be parsed.
func Validate(schema, document string) error {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewStringLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return ve
}
