package openai

import (
	"sync"

	"parrot/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// GatewayOpenAIClient implements ai.GatewayAIClient against any
// OpenAI-compatible API. Chat, vision, transcription and speech requests
// may target different models on the same endpoint.
//
// A GatewayOpenAIClient should be created using NewGatewayOpenAIClient.
type GatewayOpenAIClient struct {
	chatModel   string
	visionModel string
	audioModel  string
	speechModel string
	speechVoice string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	Client *openai.Client
}

// NewGatewayOpenAIClientParams defines the configuration parameters for
// creating a new GatewayOpenAIClient.
type NewGatewayOpenAIClientParams struct {
	ChatModel   string
	VisionModel string
	AudioModel  string
	SpeechModel string
	SpeechVoice string

	BaseURL string
	APIKey  string
}

// NewGatewayOpenAIClient creates a new client configured with the provided
// parameters.
//
// Example:
//
//	client := openai.NewGatewayOpenAIClient(openai.NewGatewayOpenAIClientParams{
//		ChatModel:   "gpt-4o-mini",
//		VisionModel: "gpt-4o-mini",
//		AudioModel:  "whisper-1",
//		SpeechModel: "tts-1",
//		APIKey:      os.Getenv("AI_API_KEY"),
//	})
func NewGatewayOpenAIClient(
	params NewGatewayOpenAIClientParams,
) *GatewayOpenAIClient {
	return &GatewayOpenAIClient{
		chatModel:   params.ChatModel,
		visionModel: params.VisionModel,
		audioModel:  params.AudioModel,
		speechModel: params.SpeechModel,
		speechVoice: params.SpeechVoice,

		metricsLock: sync.Mutex{},
		metrics:     ai.ModelMetrics{},

		Client: newOpenaiClient(params.BaseURL, params.APIKey),
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}

func (c *GatewayOpenAIClient) modifyMetrics(delta ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += delta.InputTokens
	c.metrics.OutputTokens += delta.OutputTokens
	c.metrics.TotalTokens += delta.TotalTokens
	c.metrics.DurationMs += delta.DurationMs
}

// GetMetrics returns the metrics accumulated across all calls.
func (c *GatewayOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	return c.metrics
}
