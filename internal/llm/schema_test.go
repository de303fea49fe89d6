package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func draftsTestSchema() *Schema {
	return &Schema{
		Name:        "test-drafts",
		Description: "Definition drafts",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"drafts": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"content":  map[string]any{"type": "string", "minLength": 1},
							"examples": map[string]any{"type": "array", "items": map[string]any{"type": "integer"}},
							"kind":     map[string]any{"type": "string", "enum": []string{"实词", "虚词"}},
						},
						"required": []string{"content"},
					},
				},
			},
			"required": []string{"drafts"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"valid", `{"drafts":[{"content":"表顺承","examples":[0,2],"kind":"虚词"}]}`, true},
		{"optional fields omitted", `{"drafts":[{"content":"表转折"}]}`, true},
		{"empty list", `{"drafts":[]}`, true},
		{"missing required", `{}`, false},
		{"wrong item type", `{"drafts":[{"content":"x","examples":["a"]}]}`, false},
		{"empty content", `{"drafts":[{"content":""}]}`, false},
		{"bad enum", `{"drafts":[{"content":"x","kind":"名词"}]}`, false},
		{"malformed", `{not json}`, false},
		{"empty body", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(draftsTestSchema(), json.RawMessage(tt.raw))
			if tt.valid && err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if !tt.valid {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got: %v", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestDecode(t *testing.T) {
	type draft struct {
		Content  string `json:"content"`
		Examples []int  `json:"examples"`
	}
	type drafts struct {
		Drafts []draft `json:"drafts"`
	}

	resp := &Response{Content: json.RawMessage(`{"drafts":[{"content":"表顺承","examples":[1]}]}`)}
	got, err := Decode[drafts](resp, draftsTestSchema())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got.Drafts) != 1 || got.Drafts[0].Content != "表顺承" || got.Drafts[0].Examples[0] != 1 {
		t.Fatalf("unexpected decode %+v", got)
	}

	_, err = Decode[drafts](&Response{Content: json.RawMessage(`{"drafts":1}`)}, draftsTestSchema())
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %v", err)
	}

	if _, err := Decode[drafts](nil, nil); err == nil {
		t.Fatal("expected error for nil response")
	}
}
