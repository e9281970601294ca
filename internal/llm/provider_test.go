package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestMockProvider_ReplaysInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`"# Cell Structure\n## Core Concepts"`), Usage: Usage{InputTokens: 900, OutputTokens: 4000, TotalTokens: 4900}},
		MockResponse{Content: json.RawMessage(`{"term":"osmosis","definition":"Water crossing a membrane."}`)},
	)

	lessonCtx := WithPurpose(context.Background(), "lesson")
	resp, err := mock.Generate(lessonCtx, Request{Messages: []Message{{Role: RoleUser, Content: "Write the module."}}, ThinkingBudget: 32768})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resp.Text(); got != "# Cell Structure\n## Core Concepts" {
		t.Fatalf("unexpected lesson text %q", got)
	}
	if resp.Usage.OutputTokens != 4000 || resp.StopReason != "end" {
		t.Fatalf("unexpected usage %+v stop %q", resp.Usage, resp.StopReason)
	}

	defineCtx := WithPurpose(context.Background(), "define")
	resp, err = mock.Generate(defineCtx, Request{Messages: []Message{{Role: RoleUser, Content: "Define osmosis."}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"term":"osmosis","definition":"Water crossing a membrane."}` {
		t.Fatalf("unexpected definition %s", resp.Content)
	}

	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
	if mock.Calls[0].ThinkingBudget != 32768 {
		t.Fatalf("thinking budget not recorded: %d", mock.Calls[0].ThinkingBudget)
	}
	if len(mock.Purposes) != 2 || mock.Purposes[0] != "lesson" || mock.Purposes[1] != "define" {
		t.Fatalf("unexpected purposes %v", mock.Purposes)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
	if mock.Purposes[0] != "unknown" {
		t.Fatalf("expected unlabelled purpose, got %q", mock.Purposes[0])
	}
}

func TestMockProvider_StopsAtMaxTokens(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`"# Truncated module"`),
		Usage:   Usage{OutputTokens: 256},
	})
	resp, err := mock.Generate(context.Background(), Request{MaxTokens: 256})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StopReason != "max_tokens" {
		t.Fatalf("expected max_tokens stop, got %q", resp.StopReason)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 0}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestNewProvider_RejectsMock(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil, zap.NewNop())
	if err == nil {
		t.Fatal("mock must not be selectable from configuration")
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, "lesson")
	if p := PurposeFrom(ctx); p != "lesson" {
		t.Fatalf("expected 'lesson', got %q", p)
	}
}

func TestTraceContext(t *testing.T) {
	ctx := context.Background()
	if id := TraceIDFrom(ctx); id != "" {
		t.Fatalf("expected empty trace id, got %q", id)
	}
	ctx = WithTraceID(ctx, "gen-1")
	if id := TraceIDFrom(ctx); id != "gen-1" {
		t.Fatalf("expected 'gen-1', got %q", id)
	}
}

func TestResponse_Text(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"raw text", "# Title\nBody", "# Title\nBody"},
		{"json string literal", `"quoted text"`, "quoted text"},
		{"json object", `{"a":1}`, `{"a":1}`},
		{"broken literal", `"unterminated`, `"unterminated`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Response{Content: json.RawMessage(tt.content)}
			if got := r.Text(); got != tt.want {
				t.Fatalf("Text() = %q, want %q", got, tt.want)
			}
		})
	}

	var nilResp *Response
	if nilResp.Text() != "" {
		t.Fatal("expected empty text for nil response")
	}
}

func TestConfig_ForLookup(t *testing.T) {
	cfg := DefaultConfig().ForLookup()
	if cfg.Gemini.Model != "gemini-flash" {
		t.Fatalf("gemini lookup model = %q", cfg.Gemini.Model)
	}
	if cfg.Anthropic.Model != "claude-haiku" {
		t.Fatalf("anthropic lookup model = %q", cfg.Anthropic.Model)
	}

	custom := DefaultConfig()
	custom.OpenAI.LookupModel = ""
	if got := custom.ForLookup().OpenAI.Model; got != "gpt-4o" {
		t.Fatalf("empty lookup model should keep main model, got %q", got)
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}

	base := DefaultConfig()
	base.Provider = "openai"
	if _, ok := DiscoverConfig(base); ok {
		t.Fatal("expected no discovery without keys")
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENAI_API_KEY", "sk-oai")
	cfg, ok := DiscoverConfig(base)
	if !ok || cfg.Provider != "openai" || cfg.OpenAI.APIKey != "sk-oai" {
		t.Fatalf("expected openai to win over anthropic, got %+v", cfg)
	}

	t.Setenv("GEMINI_API_KEY", "g-key")
	cfg, ok = DiscoverConfig(base)
	if !ok || cfg.Provider != "gemini" || cfg.Gemini.APIKey != "g-key" {
		t.Fatalf("expected gemini first, got provider %q", cfg.Provider)
	}
	if cfg.Gemini.Model != "gemini-pro" {
		t.Fatalf("discovery should keep base models, got %q", cfg.Gemini.Model)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "openai with key",
			cfg:     Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "gemini without key",
			cfg:     Config{Provider: "gemini"},
			wantErr: true,
		},
		{
			name:    "gemini with key",
			cfg:     Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "g-test"}},
			wantErr: false,
		},
		{
			name:    "openrouter without key",
			cfg:     Config{Provider: "openrouter"},
			wantErr: true,
		},
		{
			name:    "mock is not configurable",
			cfg:     Config{Provider: "mock"},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
