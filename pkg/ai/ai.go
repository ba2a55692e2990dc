package ai

import (
	"context"
)

// Base64Image is an image payload encoded for a vision request.
// FileType is the data-URL prefix, e.g. "data:image/png;base64,".
type Base64Image struct {
	Base64   string `json:"base64"`
	FileType string `json:"file_type"`
}

// GenerateOptions holds configuration for AI generation requests.
type GenerateOptions struct {
	Model         string   // Model identifier to use for generation
	SystemPrompts []string // System prompts prepended to the request
	Temperature   float64  // Sampling temperature (0.0-2.0)
}

// GenerateOption is a functional option for configuring AI generation requests.
type GenerateOption func(*GenerateOptions)

// WithModel returns a GenerateOption that sets the model to use for generation.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithSystemPrompts returns a GenerateOption that sets the system prompts
// to prepend to the generation request.
func WithSystemPrompts(prompts ...string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompts = prompts
	}
}

// WithTemperature returns a GenerateOption that sets the sampling temperature.
func WithTemperature(temperature float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temperature
	}
}

// ApplyOptions folds the given options into a GenerateOptions value.
func ApplyOptions(opts ...GenerateOption) GenerateOptions {
	options := GenerateOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// ModelMetrics contains accumulated performance metrics from AI model operations.
type ModelMetrics struct {
	InputTokens  int   `json:"input_tokens"`
	OutputTokens int   `json:"output_tokens"`
	TotalTokens  int   `json:"total_tokens"`
	DurationMs   int64 `json:"duration_ms"`
}

// GatewayAIClient is the model-facing surface the gateway pipelines depend on.
// Adapters (OpenAI-compatible, Ollama) implement it; tests substitute fakes.
type GatewayAIClient interface {
	// GenerateCompletion sends a single-turn prompt and returns the
	// generated text.
	GenerateCompletion(
		ctx context.Context,
		prompt string,
		opts ...GenerateOption,
	) (string, error)

	// GenerateCompletionWithFormat sends a prompt and unmarshals the
	// response into out, using a JSON schema derived from out's type.
	GenerateCompletionWithFormat(
		ctx context.Context,
		name string,
		description string,
		prompt string,
		out any,
		opts ...GenerateOption,
	) error

	// GenerateImageDescription sends a vision request with a base64-encoded
	// image and returns the model's textual output for the given prompt.
	GenerateImageDescription(
		ctx context.Context,
		prompt string,
		image Base64Image,
	) (string, error)

	// GenerateAudioTranscription transcribes normalized audio to text.
	// The language parameter is optional and hints the expected language.
	GenerateAudioTranscription(
		ctx context.Context,
		audio []byte,
		language string,
	) (string, error)

	// GenerateSpeech synthesizes text into encoded audio (MP3).
	GenerateSpeech(
		ctx context.Context,
		text string,
	) ([]byte, error)

	// GetMetrics returns the metrics accumulated across all calls.
	GetMetrics() ModelMetrics
}

// TranscribeImagePrompt instructs a vision model to act as an OCR pass:
// every legible text fragment, in reading order, nothing else.
const TranscribeImagePrompt = `Transcribe all text visible in this image. ` +
	`Return the text fragments in reading order, separated by single spaces. ` +
	`Do not describe the image, do not add commentary. ` +
	`If the image contains no legible text, return an empty response.`
