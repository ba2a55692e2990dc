package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/draw"
	"image/png"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"parrot/internal/fault"
	"parrot/pkg/ai"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// extractImage decodes the upload, normalizes it to an RGB(A) PNG and runs
// it through the vision model as an OCR pass. An image with no legible text
// yields NoTextSentinel, never an error.
func (e *Extractor) extractImage(ctx context.Context, data []byte) (string, error) {
	normalized, err := normalizeImage(data)
	if err != nil {
		return "", err
	}

	b64 := ai.Base64Image{
		Base64:   base64.StdEncoding.EncodeToString(normalized),
		FileType: "data:image/png;base64,",
	}
	text, err := e.vision.GenerateImageDescription(ctx, ai.TranscribeImagePrompt, b64)
	if err != nil {
		return "", fault.Wrap(fault.KindServiceUnavailable, err,
			"Failed to process image")
	}

	fragments := strings.Fields(text)
	if len(fragments) == 0 {
		return NoTextSentinel, nil
	}

	return strings.Join(fragments, " "), nil
}

// normalizeImage re-encodes arbitrary image formats as PNG, flattening the
// color mode onto an RGBA canvas.
func normalizeImage(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fault.Wrap(fault.KindUnsupportedEncoding, err,
			"Failed to decode image data")
	}

	bounds := src.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, src, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, fault.Wrap(fault.KindUnsupportedEncoding, err,
			"Failed to encode image data")
	}

	return buf.Bytes(), nil
}
