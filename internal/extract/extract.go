package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"parrot/internal/fault"
	"parrot/pkg/ai"

	"golang.org/x/sync/singleflight"
)

// NoTextSentinel is returned when OCR finds no legible text in an image.
// This is a valid result, not a failure.
const NoTextSentinel = "No text could be extracted from the image."

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".webp": true,
}

// IsImage reports whether the filename carries a supported image extension.
func IsImage(filename string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(filename))]
}

// VisionClient is the subset of the AI client the extractor needs for OCR.
type VisionClient interface {
	GenerateImageDescription(ctx context.Context, prompt string, image ai.Base64Image) (string, error)
}

// Extractor converts uploaded files into plain text. Dispatch is strictly
// by filename extension; content is never sniffed.
type Extractor struct {
	vision VisionClient

	cache   map[string]string
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewExtractor creates an extractor that performs image OCR through the
// given vision client.
func NewExtractor(vision VisionClient) *Extractor {
	return &Extractor{
		vision: vision,
		cache:  make(map[string]string),
	}
}

// Extract converts file bytes into plain text based on the filename
// extension. Results are cached per content hash.
func (e *Extractor) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	key := cacheKey(ext, data)
	e.cacheMu.RLock()
	if cached, ok := e.cache[key]; ok {
		e.cacheMu.RUnlock()
		return cached, nil
	}
	e.cacheMu.RUnlock()

	result, err, _ := e.group.Do(key, func() (any, error) {
		text, err := e.extract(ctx, data, ext)
		if err != nil {
			return "", err
		}

		e.cacheMu.Lock()
		e.cache[key] = text
		e.cacheMu.Unlock()

		return text, nil
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

func (e *Extractor) extract(ctx context.Context, data []byte, ext string) (string, error) {
	switch {
	case imageExtensions[ext]:
		return e.extractImage(ctx, data)
	case ext == ".txt" || ext == ".md":
		return extractPlainText(data)
	case ext == ".html" || ext == ".htm":
		return extractHTML(data)
	case ext == ".docx":
		return extractDocx(data)
	case ext == ".pdf":
		return extractPDF(ctx, data)
	default:
		return "", fault.New(fault.KindUnsupportedFileType,
			"Unsupported file type: %s", ext)
	}
}

// extractPlainText decodes the file as UTF-8 text.
func extractPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fault.New(fault.KindUnsupportedEncoding,
			"File encoding not supported, expected UTF-8")
	}
	content := string(data)
	if strings.TrimSpace(content) == "" {
		return "", fault.New(fault.KindEmptyFile, "The file is empty")
	}
	return content, nil
}

func cacheKey(ext string, data []byte) string {
	sum := sha256.Sum256(data)
	return ext + ":" + hex.EncodeToString(sum[:])
}
