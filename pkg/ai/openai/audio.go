package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"parrot/pkg/ai"

	"github.com/openai/openai-go/v3"
)

// GenerateAudioTranscription transcribes audio data to text using the
// configured audio model. The language parameter is optional and can be
// used to hint the expected language.
func (c *GatewayOpenAIClient) GenerateAudioTranscription(
	ctx context.Context,
	audio []byte,
	language string,
) (string, error) {
	client := c.Client
	if client == nil {
		return "", fmt.Errorf("audio client not configured")
	}

	params := openai.AudioTranscriptionNewParams{
		File:  bytes.NewReader(audio),
		Model: openai.AudioModel(c.audioModel),
	}

	if language != "" {
		params.Language = openai.String(language)
	}

	start := time.Now()
	transcription, err := client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", err
	}
	duration := time.Since(start).Milliseconds()

	metrics := ai.ModelMetrics{
		// OpenAI doesn't return token usage for audio
		DurationMs: duration,
	}
	c.modifyMetrics(metrics)

	return transcription.Text, nil
}

// GenerateSpeech synthesizes text into MP3 audio using the configured
// speech model and voice.
func (c *GatewayOpenAIClient) GenerateSpeech(
	ctx context.Context,
	text string,
) ([]byte, error) {
	client := c.Client
	if client == nil {
		return nil, fmt.Errorf("speech client not configured")
	}

	params := openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(c.speechModel),
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(c.speechVoice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	}

	start := time.Now()
	response, err := client.Audio.Speech.New(ctx, params)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech response: %w", err)
	}
	duration := time.Since(start).Milliseconds()

	metrics := ai.ModelMetrics{
		DurationMs: duration,
	}
	c.modifyMetrics(metrics)

	return data, nil
}
