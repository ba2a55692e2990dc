package transcode

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"parrot/internal/fault"
)

const ffmpegTool = "ffmpeg"

// Transcoder converts compressed voice recordings (WebM/Opus and anything
// else ffmpeg can read) into mono 16-bit PCM WAV at 16 kHz, the format the
// speech recognition service expects.
type Transcoder struct{}

func NewTranscoder() *Transcoder {
	return &Transcoder{}
}

// ToWAV writes the input to a scoped temp directory, runs ffmpeg and reads
// back the normalized WAV. The temp directory is removed on every exit path.
func (t *Transcoder) ToWAV(ctx context.Context, input []byte) ([]byte, error) {
	if _, err := exec.LookPath(ffmpegTool); err != nil {
		return nil, fault.Wrap(fault.KindDependencyUnavailable, err,
			"ffmpeg is not installed")
	}

	tmpDir, err := os.MkdirTemp("", "voice-")
	if err != nil {
		return nil, fault.Wrap(fault.KindTranscodeFailed, err,
			"failed to create temp dir")
	}
	defer os.RemoveAll(tmpDir)

	inPath := filepath.Join(tmpDir, "input.webm")
	if err := os.WriteFile(inPath, input, 0o600); err != nil {
		return nil, fault.Wrap(fault.KindTranscodeFailed, err,
			"failed to write temp audio")
	}

	outPath := filepath.Join(tmpDir, "output.wav")
	cmd := exec.CommandContext(
		ctx,
		ffmpegTool,
		"-i", inPath,
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y", outPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fault.Wrap(fault.KindTranscodeFailed, err,
			"failed to convert audio: %s", strings.TrimSpace(string(out)))
	}

	wav, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fault.Wrap(fault.KindTranscodeFailed, err,
			"failed to read converted audio")
	}

	return wav, nil
}
