package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema describes the JSON object a prompt asks the model to return.
type ExtractionSchema struct {
	Name        string        // Schema name, e.g. "JobRequirements"
	Description string        // Instruction preamble
	Fields      []SchemaField // Expected output fields
}

// SchemaField is one field of the expected JSON object.
type SchemaField struct {
	Name        string
	Type        string // Type hint shown to the model, e.g. "int", "[\"string\"]"
	Description string
	Required    bool
}

// BuildExtractionPrompt renders schema and inputText into a single prompt.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\nReturn ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s", field.Name, typeHint))
		if field.Required {
			sb.WriteString(" (required)")
		}
		if field.Description != "" {
			sb.WriteString(" // " + field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")
	sb.WriteString("Return ONLY the JSON object, no markdown, no explanation.\n\n")
	sb.WriteString("Job description:\n```\n")
	sb.WriteString(inputText)
	sb.WriteString("\n```\n")
	return sb.String()
}

// RequirementsSchema is the extraction schema for job requirements.
// description is the instruction preamble, usually loaded from the prompts package.
func RequirementsSchema(description string) ExtractionSchema {
	return ExtractionSchema{
		Name:        "JobRequirements",
		Description: description,
		Fields: []SchemaField{
			{Name: "tenure", Type: "int", Description: "total years of experience expected, 0 if not stated", Required: true},
			{Name: "is_required_bachelor", Type: "bool", Description: "true if a bachelor degree is required", Required: true},
			{Name: "is_required_master", Type: "bool", Description: "true if a master degree is required", Required: true},
			{Name: "bachelor_program", Type: "[\"string\"]", Description: "accepted bachelor programs", Required: true},
			{Name: "master_program", Type: "[\"string\"]", Description: "accepted master programs", Required: true},
		},
	}
}
