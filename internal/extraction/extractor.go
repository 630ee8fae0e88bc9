// Package extraction derives structured job requirements from free-text job descriptions.
package extraction

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-matcher/internal/llm"
	"github.com/jonathan/candidate-matcher/internal/metrics"
	"github.com/jonathan/candidate-matcher/internal/prompts"
	"github.com/jonathan/candidate-matcher/internal/schemas"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// Extractor turns a job description into Requirements.
type Extractor interface {
	Extract(ctx context.Context, jobDescription string) (*types.Requirements, error)
}

// LLMExtractor asks a language model for requirements and validates the answer
// against the job requirements schema before decoding it.
type LLMExtractor struct {
	client llm.Client
	schema llm.ExtractionSchema
	logger *zap.Logger
}

// NewLLMExtractor creates an extractor backed by client.
func NewLLMExtractor(client llm.Client, logger *zap.Logger) (*LLMExtractor, error) {
	description, err := prompts.Get("extraction.json", "job-requirements")
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMExtractor{
		client: client,
		schema: llm.RequirementsSchema(description),
		logger: logger.With(zap.String("ai_provider", string(client.Provider())), zap.String("ai_model", client.Model())),
	}, nil
}

// Extract returns the requirements stated in jobDescription.
func (e *LLMExtractor) Extract(ctx context.Context, jobDescription string) (*types.Requirements, error) {
	provider := string(e.client.Provider())
	if strings.TrimSpace(jobDescription) == "" {
		return nil, &ExtractionError{Message: "job description is empty"}
	}

	raw, err := e.client.GenerateJSON(ctx, llm.BuildExtractionPrompt(e.schema, jobDescription))
	if err != nil {
		metrics.IncExtraction(provider, "oracle_error")
		return nil, &ExtractionError{Message: "model call failed", Cause: err}
	}

	req, err := Decode(raw)
	if err != nil {
		metrics.IncExtraction(provider, "invalid_output")
		e.logger.Warn("extractor returned unusable output", zap.Error(err), zap.Int("output_len", len(raw)))
		return nil, err
	}

	metrics.IncExtraction(provider, "ok")
	e.logger.Debug("requirements extracted",
		zap.Int("tenure", req.Tenure),
		zap.Bool("bachelor", req.IsRequiredBachelor),
		zap.Bool("master", req.IsRequiredMaster))
	return req, nil
}

// Decode validates raw model output against the requirements schema and decodes it.
func Decode(raw string) (*types.Requirements, error) {
	if err := schemas.Validate(schemas.JobRequirements, raw); err != nil {
		return nil, &ExtractionError{Message: "output does not match schema", Cause: err}
	}

	var req types.Requirements
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return nil, &ExtractionError{Message: "failed to decode output", Cause: err}
	}
	req.BachelorProgram = normalizePrograms(req.BachelorProgram)
	req.MasterProgram = normalizePrograms(req.MasterProgram)
	return &req, nil
}

// normalizePrograms trims names and drops blanks; the result is never nil.
func normalizePrograms(programs []string) []string {
	out := make([]string, 0, len(programs))
	for _, p := range programs {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
