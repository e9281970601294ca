package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func newTestGeminiProvider(t *testing.T, model string, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: server.URL},
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return &GeminiProvider{client: client, model: model}
}

func writeGeminiJSON(w http.ResponseWriter, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-3-flash-preview"},
		{"gemini-pro", "gemini-3-pro-preview"},
		{"gemini-image", "gemini-2.5-flash-image"},
		{"gemini-2.5-flash", "gemini-2.5-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"age":   map[string]any{"type": "integer"},
			"grade": map[string]any{"type": "string", "enum": []any{"A", "B", "C"}},
			"scores": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer"},
			},
		},
		"required": []any{"name", "age"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["name"].Type != "STRING" {
		t.Fatalf("expected STRING for name, got %s", schema.Properties["name"].Type)
	}
	if schema.Properties["age"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for age, got %s", schema.Properties["age"].Type)
	}
	if len(schema.Properties["grade"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["grade"].Enum))
	}
	if schema.Properties["scores"].Type != "ARRAY" {
		t.Fatalf("expected ARRAY for scores, got %s", schema.Properties["scores"].Type)
	}
	if schema.Properties["scores"].Items.Type != "INTEGER" {
		t.Fatalf("expected INTEGER for scores items, got %s", schema.Properties["scores"].Items.Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func TestGeminiProvider_TextWithThinkingBudget(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		writeGeminiJSON(w, map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": "# Ecosystems\n## Core Concepts"}},
				},
				"finishReason": "STOP",
			}},
			"usageMetadata": map[string]any{
				"promptTokenCount":     120,
				"candidatesTokenCount": 900,
				"totalTokenCount":      1020,
			},
		})
	}

	p := newTestGeminiProvider(t, "gemini-3-pro-preview", handler)
	resp, err := p.Generate(context.Background(), Request{
		Messages:       []Message{{Role: RoleUser, Content: "Write the module."}},
		ThinkingBudget: 32768,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotPath, "gemini-3-pro-preview:generateContent") {
		t.Fatalf("unexpected path %q", gotPath)
	}
	gen, _ := gotBody["generationConfig"].(map[string]any)
	thinking, _ := gen["thinkingConfig"].(map[string]any)
	if thinking["thinkingBudget"] != float64(32768) {
		t.Fatalf("thinking budget not sent: %v", gen)
	}
	if resp.Text() != "# Ecosystems\n## Core Concepts" {
		t.Fatalf("unexpected text %q", resp.Text())
	}
	if resp.Usage.OutputTokens != 900 || resp.StopReason != "end" {
		t.Fatalf("unexpected usage/stop: %+v %q", resp.Usage, resp.StopReason)
	}
}

func TestGeminiProvider_SafetyBlock(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		writeGeminiJSON(w, map[string]any{
			"promptFeedback": map[string]any{"blockReason": "SAFETY"},
		})
	}

	p := newTestGeminiProvider(t, "gemini-3-flash-preview", handler)
	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "test"}},
	})
	var blocked *ErrContentBlocked
	if !errors.As(err, &blocked) {
		t.Fatalf("expected ErrContentBlocked, got: %T (%v)", err, err)
	}
	if blocked.Reason != "SAFETY" {
		t.Fatalf("reason = %q", blocked.Reason)
	}
}

func TestGeminiProvider_GenerateImage(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	var gotBody map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		writeGeminiJSON(w, map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role": "model",
					"parts": []map[string]any{
						{"text": "Here is the diagram."},
						{"inlineData": map[string]any{
							"mimeType": "image/png",
							"data":     base64.StdEncoding.EncodeToString(png),
						}},
					},
				},
				"finishReason": "STOP",
			}},
		})
	}

	p := newTestGeminiProvider(t, "gemini-2.5-flash-image", handler)
	img, err := p.GenerateImage(context.Background(), ImageRequest{
		Prompt:      "Water cycle diagram.",
		AspectRatio: "16:9",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.MIMEType != "image/png" || string(img.Data) != string(png) {
		t.Fatalf("unexpected image %q %v", img.MIMEType, img.Data)
	}

	genCfg, _ := gotBody["generationConfig"].(map[string]any)
	imageCfg, _ := genCfg["imageConfig"].(map[string]any)
	if imageCfg["aspectRatio"] != "16:9" {
		t.Fatalf("aspect ratio missing from generation config: %v", gotBody["generationConfig"])
	}
	raw, _ := json.Marshal(gotBody["contents"])
	if strings.Contains(string(raw), "Aspect ratio") {
		t.Fatalf("aspect ratio leaked into the prompt: %s", raw)
	}
}

func TestGeminiProvider_GenerateImageWithoutData(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		writeGeminiJSON(w, map[string]any{
			"candidates": []map[string]any{{
				"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": "no image"}}},
				"finishReason": "STOP",
			}},
		})
	}

	p := newTestGeminiProvider(t, "gemini-2.5-flash-image", handler)
	_, err := p.GenerateImage(context.Background(), ImageRequest{Prompt: "x"})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
	}
}
