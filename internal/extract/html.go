package extract

import (
	"bytes"
	"net/url"
	"strings"

	"parrot/internal/fault"

	"codeberg.org/readeck/go-readability/v2"
)

// extractHTML strips an HTML document down to its readable article text.
func extractHTML(data []byte) (string, error) {
	base, _ := url.Parse("http://localhost/")

	article, err := readability.FromReader(bytes.NewReader(data), base)
	if err != nil {
		return "", fault.Wrap(fault.KindUnsupportedEncoding, err,
			"Failed to parse HTML")
	}

	var builder strings.Builder
	if err := article.RenderText(&builder); err != nil {
		return "", fault.Wrap(fault.KindUnsupportedEncoding, err,
			"Failed to render article text")
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", fault.New(fault.KindEmptyFile, "The file is empty")
	}

	return text, nil
}
