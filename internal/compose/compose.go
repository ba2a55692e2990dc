// Package compose renders generated stories into PDF documents and hands
// them to the file store.
package compose

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"parrot/internal/story"
	"parrot/internal/storage"

	"github.com/go-pdf/fpdf"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// PersistedFile describes a stored document and how to fetch it.
type PersistedFile struct {
	FileID      string `json:"file_id"`
	Title       string `json:"title"`
	DownloadURL string `json:"download_url"`
}

// Composer turns stories into PDFs. The core fonts only cover Latin-1, so
// out-of-range runes are replaced rather than dropped.
type Composer struct {
	store storage.Store

	now   func() time.Time
	newID func() (string, error)
}

func NewComposer(store storage.Store) *Composer {
	return &Composer{
		store: store,
		now:   time.Now,
		newID: func() (string, error) { return gonanoid.New(8) },
	}
}

// ComposeStory renders the story as a PDF, persists it under a fresh file
// id and returns the download handle.
func (c *Composer) ComposeStory(ctx context.Context, s story.Story) (PersistedFile, error) {
	pdf := buildStoryPDF(s)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return PersistedFile{}, fmt.Errorf("failed to render PDF: %w", err)
	}

	id, err := c.newID()
	if err != nil {
		return PersistedFile{}, fmt.Errorf("failed to generate file id: %w", err)
	}
	fileID := storedFilename(s.Title, c.now(), id)

	if err := c.store.Put(ctx, fileID, buf.Bytes()); err != nil {
		return PersistedFile{}, fmt.Errorf("failed to store PDF: %w", err)
	}

	return PersistedFile{
		FileID:      fileID,
		Title:       s.Title,
		DownloadURL: "/pdf/download/" + fileID,
	}, nil
}

// buildStoryPDF lays out a title page followed by one page per story page.
func buildStoryPDF(s story.Story) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 24)
	pdf.CellFormat(0, 20, toLatin1(s.Title), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	for _, page := range s.Pages {
		pdf.AddPage()
		pdf.MultiCell(0, 10, toLatin1(page.Text), "", "", false)
	}

	return pdf
}

// storedFilename builds the file id the document is persisted under. The
// nanoid suffix keeps same-titled stories from colliding within a second.
func storedFilename(title string, now time.Time, id string) string {
	return fmt.Sprintf("story_%s_%s_%s.pdf",
		sanitizeTitle(title), now.Format("20060102_150405"), id)
}

// sanitizeTitle keeps letters, digits and underscores; spaces become
// underscores, everything else is dropped.
func sanitizeTitle(title string) string {
	var sb strings.Builder
	for _, r := range title {
		switch {
		case r == ' ':
			sb.WriteRune('_')
		case r == '_',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9':
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// toLatin1 replaces runes the core PDF fonts cannot encode.
func toLatin1(text string) string {
	var sb strings.Builder
	for _, r := range text {
		if r > 0xFF {
			sb.WriteRune('?')
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
