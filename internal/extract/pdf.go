package extract

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"parrot/internal/fault"
)

const (
	pdfTool        = "pdftotext"
	pdfToolTimeout = 30 * time.Second
)

// extractPDF shells out to pdftotext, the same way the voice pipeline
// shells out to ffmpeg.
func extractPDF(ctx context.Context, data []byte) (string, error) {
	if _, err := exec.LookPath(pdfTool); err != nil {
		return "", fault.Wrap(fault.KindDependencyUnavailable, err,
			"pdftotext is not installed")
	}

	tmpDir, err := os.MkdirTemp("", "pdfextract-")
	if err != nil {
		return "", fault.Wrap(fault.KindUnsupportedEncoding, err,
			"failed to create temp dir")
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return "", fault.Wrap(fault.KindUnsupportedEncoding, err,
			"failed to write temp PDF")
	}

	ctx, cancel := context.WithTimeout(ctx, pdfToolTimeout)
	defer cancel()

	cmd := exec.CommandContext(
		ctx,
		pdfTool,
		"-enc", "UTF-8",
		"-eol", "unix",
		"-nopgbrk",
		"-q",
		pdfPath,
		"-",
	)
	cmd.Env = append(os.Environ(), "LANG=C.UTF-8", "LC_ALL=C.UTF-8")

	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fault.New(fault.KindUnsupportedEncoding, "pdftotext timed out")
	}
	if err != nil {
		return "", fault.Wrap(fault.KindUnsupportedEncoding, err,
			"pdftotext failed: %s", bytes.TrimSpace(out))
	}

	text := strings.TrimSpace(string(out))
	text = collapseNewlines.ReplaceAllString(text, "\n\n")
	if text == "" {
		return "", fault.New(fault.KindEmptyFile, "The file is empty")
	}

	return text, nil
}
