package llm

import (
	"errors"
	"testing"
)

func definitionTestSchema() *Schema {
	return &Schema{
		Name: "test-term-definition",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"term":       map[string]any{"type": "string"},
				"definition": map[string]any{"type": "string"},
			},
			"required":             []any{"term", "definition"},
			"additionalProperties": false,
		},
	}
}

func recapTestSchema() *Schema {
	return &Schema{
		Name: "test-lesson-recap",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"summary": map[string]any{"type": "string"},
				"key_points": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 3,
					"maxItems": 5,
				},
			},
			"required": []any{"summary", "key_points"},
		},
	}
}

func TestDecodeStructured_Definition(t *testing.T) {
	raw := []byte(`{"term":"osmosis","definition":"Water moving across a membrane."}`)
	got, err := decodeStructured(definitionTestSchema(), raw)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if string(got) != string(raw) {
		t.Fatalf("content changed: %s", got)
	}
}

func TestDecodeStructured_StripsCodeFence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"json fence", "```json\n{\"term\":\"cell\",\"definition\":\"Basic unit of life.\"}\n```"},
		{"bare fence", "```\n{\"term\":\"cell\",\"definition\":\"Basic unit of life.\"}\n```\n"},
		{"padded", "\n  {\"term\":\"cell\",\"definition\":\"Basic unit of life.\"}  \n"},
	}
	want := `{"term":"cell","definition":"Basic unit of life."}`
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeStructured(definitionTestSchema(), []byte(tt.raw))
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if string(got) != want {
				t.Fatalf("got %q, want %q", got, want)
			}
		})
	}
}

func TestDecodeStructured_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		schema *Schema
		raw    string
	}{
		{"missing definition", definitionTestSchema(), `{"term":"atom"}`},
		{"extra field", definitionTestSchema(), `{"term":"atom","definition":"x","grade":7}`},
		{"definition not string", definitionTestSchema(), `{"term":"atom","definition":["x"]}`},
		{"too few key points", recapTestSchema(), `{"summary":"s","key_points":["a","b"]}`},
		{"too many key points", recapTestSchema(), `{"summary":"s","key_points":["a","b","c","d","e","f"]}`},
		{"prose reply", recapTestSchema(), `Here is your recap: cells are small.`},
		{"empty", recapTestSchema(), ``},
		{"unterminated fence", definitionTestSchema(), "```json\n{\"term\":"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeStructured(tt.schema, []byte(tt.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %T", err)
			}
			if string(invErr.Content) != tt.raw {
				t.Fatalf("error should carry the raw reply, got %q", invErr.Content)
			}
		})
	}
}

func TestDecodeStructured_Recap(t *testing.T) {
	raw := []byte(`{"summary":"Cells exchange water by osmosis.","key_points":["Water moves","Membranes filter","Balance matters"]}`)
	if _, err := decodeStructured(recapTestSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestDecodeStructured_NilSchemaPassesThrough(t *testing.T) {
	raw := []byte("# Lesson\nplain markdown")
	got, err := decodeStructured(nil, raw)
	if err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
	if string(got) != string(raw) {
		t.Fatalf("content changed: %q", got)
	}
}
