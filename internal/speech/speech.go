// Package speech synthesizes spoken audio from text responses.
package speech

import (
	"context"
	"os"
	"path/filepath"

	"parrot/internal/fault"
)

// SpeechClient is the subset of the AI client the synthesizer needs.
type SpeechClient interface {
	GenerateSpeech(ctx context.Context, text string) ([]byte, error)
}

// Service produces MP3 audio from text. The engine output is staged in a
// scoped temp file and read back, so a partially written response never
// reaches the caller.
type Service struct {
	client SpeechClient
}

func NewService(client SpeechClient) *Service {
	return &Service{client: client}
}

// Synthesize converts text to MP3 bytes. The temp file is removed on
// every exit path.
func (s *Service) Synthesize(ctx context.Context, text string) ([]byte, error) {
	audio, err := s.client.GenerateSpeech(ctx, text)
	if err != nil {
		return nil, fault.Wrap(fault.KindServiceUnavailable, err,
			"Failed to synthesize speech")
	}

	tmpDir, err := os.MkdirTemp("", "speech-")
	if err != nil {
		return nil, fault.Wrap(fault.KindServiceUnavailable, err,
			"failed to create temp dir")
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "response.mp3")
	if err := os.WriteFile(path, audio, 0o600); err != nil {
		return nil, fault.Wrap(fault.KindServiceUnavailable, err,
			"failed to stage audio")
	}

	staged, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.Wrap(fault.KindServiceUnavailable, err,
			"failed to read staged audio")
	}

	return staged, nil
}
