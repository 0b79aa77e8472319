package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

// insightSchema is a small coach-shaped schema shared by the provider tests.
func insightSchema() *Schema {
	return &Schema{
		Name:        "test-insight",
		Description: "A short wellness insight",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"headline": map[string]any{"type": "string", "minLength": 1},
				"tips": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 1,
					"maxItems": 3,
				},
				"tone": map[string]any{"type": "string", "enum": []any{"warm", "direct"}},
			},
			"required": []any{"headline", "tips"},
		},
	}
}

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` || resp1.Usage.InputTokens != 10 {
		t.Fatalf("unexpected first response: %s %+v", resp1.Content, resp1.Usage)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}
	if mock.CallCount() != 2 || mock.Calls[1].Messages[0].Content != "second" {
		t.Fatalf("calls not recorded: %+v", mock.Calls)
	}
}

func TestMockProvider_EmptyQueue(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_ValidatesAgainstSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"headline":"hi","tips":[]}`)})
	_, err := mock.Generate(context.Background(), Request{Schema: insightSchema()})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}
	if p := PurposeFrom(WithPurpose(ctx, "coach")); p != "coach" {
		t.Fatalf("expected 'coach', got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: ProviderAnthropic}, true},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "sk"}}, false},
		{"openai without key", Config{Provider: ProviderOpenAI}, true},
		{"gemini with key", Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "k"}}, false},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, true},
		{"mock needs no key", Config{Provider: ProviderMock}, false},
		{"unknown provider", Config{Provider: "llama.cpp"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"VITALS_LLM_PROVIDER", "VITALS_OPENAI_API_KEY", "VITALS_OPENAI_MODEL", "VITALS_LLM_TIMEOUT",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestResolveConfig(t *testing.T) {
	t.Run("nothing configured", func(t *testing.T) {
		clearProviderEnv(t)
		if _, ok := ResolveConfig(); ok {
			t.Fatal("expected no provider")
		}
	})

	t.Run("explicit provider wins over discovery", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("GEMINI_API_KEY", "g")
		t.Setenv("VITALS_LLM_PROVIDER", "openai")
		t.Setenv("VITALS_OPENAI_API_KEY", "o")
		t.Setenv("VITALS_OPENAI_MODEL", "gpt-4o")
		t.Setenv("VITALS_LLM_TIMEOUT", "5s")

		cfg, ok := ResolveConfig()
		if !ok || cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "o" || cfg.OpenAI.Model != "gpt-4o" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
		if cfg.Timeout.Seconds() != 5 {
			t.Fatalf("expected 5s timeout, got %s", cfg.Timeout)
		}
	})

	t.Run("discovery order", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("ANTHROPIC_API_KEY", "a")
		t.Setenv("OPENAI_API_KEY", "o")

		cfg, ok := ResolveConfig()
		if !ok || cfg.Provider != ProviderOpenAI {
			t.Fatalf("expected openai to win discovery, got %+v", cfg)
		}
	})
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected mock provider, got %q", p.ModelID())
	}

	if _, err := NewProvider(context.Background(), Config{Provider: ProviderAnthropic}, nil); err == nil {
		t.Fatal("expected error for missing key")
	}

	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenRouter
	cfg.OpenRouter.APIKey = "sk-or"
	p, err = NewProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "google/gemini-2.0-flash-001" {
		t.Fatalf("unexpected model %q", p.ModelID())
	}
}

func TestNewProviderFromEnv_Unconfigured(t *testing.T) {
	clearProviderEnv(t)
	p, ok, err := NewProviderFromEnv(context.Background(), nil)
	if err != nil || ok || p != nil {
		t.Fatalf("expected (nil, false, nil), got (%v, %v, %v)", p, ok, err)
	}
}
