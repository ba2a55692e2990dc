package story

import (
	"strings"
	"testing"

	"parrot/internal/fault"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     Story
		wantKind fault.Kind
	}{
		{
			name: "plain json",
			raw:  `{"title": "The Brave Fox", "pages": [{"text": "Once upon a time.", "image_prompt": "a fox"}]}`,
			want: Story{
				Title: "The Brave Fox",
				Pages: []Page{{Text: "Once upon a time.", ImagePrompt: "a fox"}},
			},
		},
		{
			name: "json wrapped in prose",
			raw: "Here is your story:\n```json\n" +
				`{"title": "Sea Tales", "pages": [{"text": "Waves."}]}` +
				"\n```\nEnjoy!",
			want: Story{
				Title: "Sea Tales",
				Pages: []Page{{Text: "Waves."}},
			},
		},
		{
			name: "trailing comma repaired",
			raw:  `{"title": "Fixable", "pages": [{"text": "Page one",},],}`,
			want: Story{
				Title: "Fixable",
				Pages: []Page{{Text: "Page one"}},
			},
		},
		{
			name:     "no json object",
			raw:      "Sorry, I cannot write that story.",
			wantKind: fault.KindInvalidStoryJSON,
		},
		{
			name:     "missing title",
			raw:      `{"title": "  ", "pages": [{"text": "Page"}]}`,
			wantKind: fault.KindInvalidStoryJSON,
		},
		{
			name:     "no pages",
			raw:      `{"title": "Empty", "pages": []}`,
			wantKind: fault.KindInvalidStoryJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantKind != "" {
				if kind := fault.KindOf(err); kind != tt.wantKind {
					t.Fatalf("unexpected kind: got %q, want %q", kind, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Title != tt.want.Title {
				t.Fatalf("unexpected title: got %q, want %q", got.Title, tt.want.Title)
			}
			if len(got.Pages) != len(tt.want.Pages) {
				t.Fatalf("unexpected page count: got %d, want %d", len(got.Pages), len(tt.want.Pages))
			}
			for i, page := range got.Pages {
				if page != tt.want.Pages[i] {
					t.Fatalf("unexpected page %d: got %+v, want %+v", i, page, tt.want.Pages[i])
				}
			}
		})
	}
}

func TestPrompt(t *testing.T) {
	got := Prompt("a dragon who learns to bake")
	if !strings.Contains(got, "a dragon who learns to bake") {
		t.Fatalf("prompt does not include the request: %q", got)
	}
	if !strings.Contains(got, `"image_prompt"`) {
		t.Fatalf("prompt does not describe the JSON structure: %q", got)
	}
}
