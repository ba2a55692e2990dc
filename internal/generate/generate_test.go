package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"parrot/internal/fault"
	"parrot/pkg/ai"
)

type fakeAIClient struct {
	response   string
	structured func(out any) error
	err        error
	calls      int
	lastOpts   ai.GenerateOptions
}

func (f *fakeAIClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	f.calls++
	f.lastOpts = ai.ApplyOptions(opts...)
	return f.response, f.err
}

func (f *fakeAIClient) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...ai.GenerateOption) error {
	f.calls++
	f.lastOpts = ai.ApplyOptions(opts...)
	if f.structured == nil {
		return errors.New("not implemented")
	}
	return f.structured(out)
}

func (f *fakeAIClient) GenerateImageDescription(ctx context.Context, prompt string, image ai.Base64Image) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeAIClient) GenerateAudioTranscription(ctx context.Context, audio []byte, language string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeAIClient) GenerateSpeech(ctx context.Context, text string) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAIClient) GetMetrics() ai.ModelMetrics {
	return ai.ModelMetrics{}
}

type memoryCache struct {
	entries map[string]string
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]string)}
}

func (c *memoryCache) Get(ctx context.Context, model, prompt string) (string, bool) {
	text, ok := c.entries[model+"\x00"+prompt]
	return text, ok
}

func (c *memoryCache) Set(ctx context.Context, model, prompt, text string) {
	c.sets++
	c.entries[model+"\x00"+prompt] = text
}

func newTestService(client *fakeAIClient, cache Cache) *Service {
	return NewService(ServiceParams{
		Client:       client,
		Cache:        cache,
		DefaultModel: "gpt-4o-mini",
		Allowed:      []string{"gpt-4o-mini", "gpt-4o"},
	})
}

func TestResolveModel(t *testing.T) {
	svc := newTestService(&fakeAIClient{}, nil)

	tests := []struct {
		name      string
		requested string
		want      string
	}{
		{name: "empty uses default", requested: "", want: "gpt-4o-mini"},
		{name: "allowed model echoed", requested: "gpt-4o", want: "gpt-4o"},
		{name: "unknown model replaced", requested: "made-up-model", want: "gpt-4o-mini"},
		{name: "default always allowed", requested: "gpt-4o-mini", want: "gpt-4o-mini"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.ResolveModel(tt.requested); got != tt.want {
				t.Fatalf("ResolveModel(%q) = %q, want %q", tt.requested, got, tt.want)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	client := &fakeAIClient{response: "4"}
	svc := newTestService(client, nil)

	got, err := svc.Generate(context.Background(), "What is 2+2?", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "4" {
		t.Fatalf("unexpected text: %q", got.Text)
	}
	if got.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected model: %q", got.Model)
	}
	if client.lastOpts.Model != "gpt-4o-mini" {
		t.Fatalf("model not passed to client: %q", client.lastOpts.Model)
	}
}

func TestGenerate_ForwardsSystemPromptAndTemperature(t *testing.T) {
	client := &fakeAIClient{response: "ok"}
	svc := NewService(ServiceParams{
		Client:       client,
		DefaultModel: "gpt-4o-mini",
		SystemPrompt: "You are a concise assistant.",
		Temperature:  0.3,
	})

	if _, err := svc.Generate(context.Background(), "prompt", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.lastOpts.SystemPrompts) != 1 ||
		client.lastOpts.SystemPrompts[0] != "You are a concise assistant." {
		t.Fatalf("system prompt not forwarded: %v", client.lastOpts.SystemPrompts)
	}
	if client.lastOpts.Temperature != 0.3 {
		t.Fatalf("temperature not forwarded: %v", client.lastOpts.Temperature)
	}
}

func TestGenerateStructured(t *testing.T) {
	type animal struct {
		Name string `json:"name"`
	}

	client := &fakeAIClient{structured: func(out any) error {
		out.(*animal).Name = "fox"
		return nil
	}}
	svc := newTestService(client, nil)

	var got animal
	model, err := svc.GenerateStructured(context.Background(),
		"animal", "A single animal", "Name an animal", &got, "gpt-4o")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "fox" {
		t.Fatalf("output not populated: %+v", got)
	}
	if model != "gpt-4o" {
		t.Fatalf("unexpected model: %q", model)
	}
	if client.lastOpts.Model != "gpt-4o" {
		t.Fatalf("model not passed to client: %q", client.lastOpts.Model)
	}
}

func TestGenerateStructured_ClientError(t *testing.T) {
	client := &fakeAIClient{structured: func(out any) error {
		return errors.New("schema not supported")
	}}
	svc := newTestService(client, nil)

	var got struct{}
	_, err := svc.GenerateStructured(context.Background(),
		"thing", "A thing", "prompt", &got, "")
	if kind := fault.KindOf(err); kind != fault.KindServiceUnavailable {
		t.Fatalf("unexpected kind: got %q, want %q", kind, fault.KindServiceUnavailable)
	}
}

func TestGenerate_EmptyResponse(t *testing.T) {
	svc := newTestService(&fakeAIClient{response: "   "}, nil)

	_, err := svc.Generate(context.Background(), "prompt", "")
	if got := fault.KindOf(err); got != fault.KindEmptyGeneration {
		t.Fatalf("unexpected kind: got %q, want %q", got, fault.KindEmptyGeneration)
	}
}

func TestGenerate_ClientError(t *testing.T) {
	svc := newTestService(&fakeAIClient{err: errors.New("connection refused")}, nil)

	_, err := svc.Generate(context.Background(), "prompt", "")
	if got := fault.KindOf(err); got != fault.KindServiceUnavailable {
		t.Fatalf("unexpected kind: got %q, want %q", got, fault.KindServiceUnavailable)
	}
}

func TestGenerate_CacheHitSkipsClient(t *testing.T) {
	client := &fakeAIClient{response: "fresh"}
	cache := newMemoryCache()
	svc := newTestService(client, cache)
	ctx := context.Background()

	first, err := svc.Generate(ctx, "prompt", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Generate(ctx, "prompt", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Text != second.Text {
		t.Fatalf("cache returned different text: %q vs %q", first.Text, second.Text)
	}
	if client.calls != 1 {
		t.Fatalf("expected one client call, got %d", client.calls)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache store, got %d", cache.sets)
	}
}

func TestAnalysisPrompt(t *testing.T) {
	got := AnalysisPrompt("quarterly report text")
	if !strings.Contains(got, "quarterly report text") {
		t.Fatalf("prompt does not include the content: %q", got)
	}
	for _, section := range []string{"summary", "insights", "recommendations"} {
		if !strings.Contains(strings.ToLower(got), section) {
			t.Fatalf("prompt missing %q section: %q", section, got)
		}
	}
}
