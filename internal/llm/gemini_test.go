package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	schema := buildGeminiSchema(draftsTestSchema().Definition)

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "drafts" {
		t.Fatalf("unexpected required %v", schema.Required)
	}

	drafts := schema.Properties["drafts"]
	if drafts == nil || drafts.Type != genai.TypeArray {
		t.Fatalf("expected ARRAY for drafts, got %+v", drafts)
	}
	item := drafts.Items
	if item.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT items, got %s", item.Type)
	}
	if got := item.PropertyOrdering; len(got) != 3 || got[0] != "content" || got[2] != "kind" {
		t.Fatalf("unexpected property ordering %v", got)
	}
	if len(item.Properties["kind"].Enum) != 2 {
		t.Fatalf("expected 2 enum values, got %v", item.Properties["kind"].Enum)
	}
	if item.Properties["examples"].Items.Type != genai.TypeInteger {
		t.Fatalf("expected INTEGER examples, got %s", item.Properties["examples"].Items.Type)
	}
}

func TestBuildGeminiSchema_DecodedJSON(t *testing.T) {
	schema := buildGeminiSchema(map[string]any{
		"type":     "array",
		"items":    map[string]any{"type": "number"},
		"maxItems": float64(5),
		"required": []any{"x"},
	})
	if schema.MaxItems == nil || *schema.MaxItems != 5 {
		t.Fatalf("expected maxItems 5, got %v", schema.MaxItems)
	}
	if len(schema.Required) != 1 {
		t.Fatalf("expected []any required to decode, got %v", schema.Required)
	}
	if schema.Items.Type != genai.TypeNumber {
		t.Fatalf("expected NUMBER items, got %s", schema.Items.Type)
	}
}
