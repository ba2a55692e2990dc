package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"

	"parrot/internal/fault"
	"parrot/pkg/ai"
)

type fakeVision struct {
	response string
	err      error
	calls    int
}

func (f *fakeVision) GenerateImageDescription(ctx context.Context, prompt string, img ai.Base64Image) (string, error) {
	f.calls++
	return f.response, f.err
}

func encodePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func encodeDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("failed to write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtract_UnsupportedFileType(t *testing.T) {
	e := NewExtractor(&fakeVision{})

	_, err := e.Extract(context.Background(), []byte("data"), "report.xyz")
	if got := fault.KindOf(err); got != fault.KindUnsupportedFileType {
		t.Fatalf("unexpected kind: got %q, want %q", got, fault.KindUnsupportedFileType)
	}
	if msg := fault.MessageOf(err); !strings.Contains(msg, ".xyz") {
		t.Fatalf("expected extension in message, got %q", msg)
	}
}

func TestExtract_PlainText(t *testing.T) {
	e := NewExtractor(&fakeVision{})

	tests := []struct {
		name     string
		data     []byte
		filename string
		want     string
		wantKind fault.Kind
	}{
		{
			name:     "utf8 text",
			data:     []byte("hello world\n"),
			filename: "notes.txt",
			want:     "hello world\n",
		},
		{
			name:     "markdown",
			data:     []byte("# Title"),
			filename: "README.md",
			want:     "# Title",
		},
		{
			name:     "whitespace only",
			data:     []byte("  \n\t  "),
			filename: "empty.txt",
			wantKind: fault.KindEmptyFile,
		},
		{
			name:     "invalid utf8",
			data:     []byte{0xff, 0xfe, 0x00},
			filename: "binary.txt",
			wantKind: fault.KindUnsupportedEncoding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Extract(context.Background(), tt.data, tt.filename)
			if tt.wantKind != "" {
				if kind := fault.KindOf(err); kind != tt.wantKind {
					t.Fatalf("unexpected kind: got %q, want %q", kind, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("unexpected text: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtract_ImageJoinsFragments(t *testing.T) {
	vision := &fakeVision{response: "  first\nsecond   third  "}
	e := NewExtractor(vision)

	got, err := e.Extract(context.Background(), encodePNG(t), "scan.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "first second third" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestExtract_ImageNoText(t *testing.T) {
	vision := &fakeVision{response: "   "}
	e := NewExtractor(vision)

	got, err := e.Extract(context.Background(), encodePNG(t), "blank.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != NoTextSentinel {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestExtract_CachesByContent(t *testing.T) {
	vision := &fakeVision{response: "cached text"}
	e := NewExtractor(vision)
	data := encodePNG(t)

	for range 3 {
		got, err := e.Extract(context.Background(), data, "scan.png")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "cached text" {
			t.Fatalf("unexpected text: %q", got)
		}
	}

	if vision.calls != 1 {
		t.Fatalf("expected one vision call, got %d", vision.calls)
	}
}

func TestExtract_Docx(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
    <w:p>
      <w:del><w:r><w:t>deleted text</w:t></w:r></w:del>
      <w:r><w:t>kept text</w:t></w:r>
    </w:p>
  </w:body>
</w:document>`

	e := NewExtractor(&fakeVision{})
	got, err := e.Extract(context.Background(), encodeDocx(t, doc), "report.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "First paragraph") {
		t.Fatalf("expected paragraph text, got %q", got)
	}
	if !strings.Contains(got, "kept text") {
		t.Fatalf("expected kept run, got %q", got)
	}
	if strings.Contains(got, "deleted text") {
		t.Fatalf("tracked deletion leaked into output: %q", got)
	}
}

func TestExtract_DocxMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if _, err := zw.Create("word/other.xml"); err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}

	e := NewExtractor(&fakeVision{})
	_, err := e.Extract(context.Background(), buf.Bytes(), "broken.docx")
	if got := fault.KindOf(err); got != fault.KindUnsupportedEncoding {
		t.Fatalf("unexpected kind: got %q, want %q", got, fault.KindUnsupportedEncoding)
	}
}
