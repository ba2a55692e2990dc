package ai

import "testing"

type schemaTestPayload struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

func TestUnmarshalFlexible(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  schemaTestPayload
	}{
		{
			name:  "standard json",
			input: `{"title": "test", "count": 2}`,
			want:  schemaTestPayload{Title: "test", Count: 2},
		},
		{
			name:  "double encoded",
			input: `"{\"title\": \"test\", \"count\": 2}"`,
			want:  schemaTestPayload{Title: "test", Count: 2},
		},
		{
			name:  "malformed but repairable",
			input: `{title: "test", count: 2}`,
			want:  schemaTestPayload{Title: "test", Count: 2},
		},
		{
			name:  "trailing comma",
			input: `{"title": "test", "count": 2,}`,
			want:  schemaTestPayload{Title: "test", Count: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got schemaTestPayload
			if err := UnmarshalFlexible(tt.input, &got); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("unexpected result: got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema(schemaTestPayload{})
	if schema == nil {
		t.Fatal("expected non-nil schema")
	}
	schema = GenerateSchema(&schemaTestPayload{})
	if schema == nil {
		t.Fatal("expected non-nil schema for pointer type")
	}
}
