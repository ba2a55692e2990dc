// Package generate runs chat completions against the configured AI
// adapter with model allow-listing, retries and an optional cache.
package generate

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"parrot/internal/fault"
	"parrot/internal/util"
	"parrot/pkg/ai"
	"parrot/pkg/logger"
)

const analysisPromptTemplate = `Analyze the following content and provide a detailed response:
%s

Please include:
1. A summary of the main points
2. Key insights or observations
3. Any relevant recommendations`

// Cache is consulted before and populated after generation. A nil Cache
// disables caching.
type Cache interface {
	Get(ctx context.Context, model, prompt string) (string, bool)
	Set(ctx context.Context, model, prompt, text string)
}

// Result carries the completion text and the model that actually served
// the request after allow-list substitution.
type Result struct {
	Text  string
	Model string
}

// Service is the gateway's single entry point for chat completions.
type Service struct {
	client ai.GatewayAIClient
	cache  Cache

	defaultModel string
	allowed      []string
	systemPrompt string
	temperature  float64
	timeout      time.Duration
	maxTries     int
}

// ServiceParams configures a generation service. Allowed is the model
// allow-list; the default model is always permitted. SystemPrompt and
// Temperature are applied to every completion when set.
type ServiceParams struct {
	Client       ai.GatewayAIClient
	Cache        Cache
	DefaultModel string
	Allowed      []string
	SystemPrompt string
	Temperature  float64
	Timeout      time.Duration
	MaxTries     int
}

func NewService(params ServiceParams) *Service {
	if params.Timeout <= 0 {
		params.Timeout = 120 * time.Second
	}
	if params.MaxTries <= 0 {
		params.MaxTries = 1
	}
	return &Service{
		client:       params.Client,
		cache:        params.Cache,
		defaultModel: params.DefaultModel,
		allowed:      params.Allowed,
		systemPrompt: params.SystemPrompt,
		temperature:  params.Temperature,
		timeout:      params.Timeout,
		maxTries:     params.MaxTries,
	}
}

// options builds the per-request generation options for the given model.
func (s *Service) options(model string) []ai.GenerateOption {
	opts := []ai.GenerateOption{ai.WithModel(model)}
	if s.systemPrompt != "" {
		opts = append(opts, ai.WithSystemPrompts(s.systemPrompt))
	}
	if s.temperature > 0 {
		opts = append(opts, ai.WithTemperature(s.temperature))
	}
	return opts
}

// ResolveModel maps a requested model id onto the allow-list. Empty or
// unknown ids fall back to the default model, they are never an error.
func (s *Service) ResolveModel(requested string) string {
	if requested == "" {
		return s.defaultModel
	}
	if requested == s.defaultModel || slices.Contains(s.allowed, requested) {
		return requested
	}
	logger.Debug("requested model not allowed, using default",
		"requested", requested, "default", s.defaultModel)
	return s.defaultModel
}

// Generate runs one chat completion. Empty model output is an error, the
// caller always gets either text or a fault.
func (s *Service) Generate(ctx context.Context, prompt string, requestedModel string) (Result, error) {
	model := s.ResolveModel(requestedModel)

	if s.cache != nil {
		if text, ok := s.cache.Get(ctx, model, prompt); ok {
			return Result{Text: text, Model: model}, nil
		}
	}

	text, err := util.RetryWithContext(ctx, s.maxTries, func(ctx context.Context) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return s.client.GenerateCompletion(ctx, prompt, s.options(model)...)
	})
	if err != nil {
		return Result{}, fault.Wrap(fault.KindServiceUnavailable, err,
			"Failed to generate AI response")
	}

	if strings.TrimSpace(text) == "" {
		return Result{}, fault.New(fault.KindEmptyGeneration,
			"AI model returned empty response")
	}

	if s.cache != nil {
		s.cache.Set(ctx, model, prompt, text)
	}

	return Result{Text: text, Model: model}, nil
}

// GenerateStructured runs a schema-constrained completion and unmarshals
// the result into out. name and description label the schema for the
// adapter. The caller is expected to fall back to Generate plus its own
// parsing when the adapter cannot honor the schema.
func (s *Service) GenerateStructured(
	ctx context.Context,
	name, description, prompt string,
	out any,
	requestedModel string,
) (string, error) {
	model := s.ResolveModel(requestedModel)

	_, err := util.RetryWithContext(ctx, s.maxTries, func(ctx context.Context) (struct{}, error) {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return struct{}{}, s.client.GenerateCompletionWithFormat(
			ctx, name, description, prompt, out, s.options(model)...)
	})
	if err != nil {
		return model, fault.Wrap(fault.KindServiceUnavailable, err,
			"Failed to generate AI response")
	}

	return model, nil
}

// AnalysisPrompt wraps extracted file content in the summary, insights
// and recommendations template.
func AnalysisPrompt(content string) string {
	return fmt.Sprintf(analysisPromptTemplate, content)
}
