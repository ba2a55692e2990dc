package ollama

import (
	"context"
	"fmt"
)

// GenerateAudioTranscription is not supported by Ollama.
func (c *GatewayOllamaClient) GenerateAudioTranscription(
	ctx context.Context,
	audio []byte,
	language string,
) (string, error) {
	return "", fmt.Errorf("audio transcription is not supported by the ollama adapter")
}

// GenerateSpeech is not supported by Ollama.
func (c *GatewayOllamaClient) GenerateSpeech(
	ctx context.Context,
	text string,
) ([]byte, error) {
	return nil, fmt.Errorf("speech synthesis is not supported by the ollama adapter")
}
