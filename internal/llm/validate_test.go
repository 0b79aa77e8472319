package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"headline":"Nice work","tips":["stretch"],"tone":"warm"}`, false},
		{"optional omitted", `{"headline":"Nice work","tips":["stretch"]}`, false},
		{"missing required", `{"headline":"Nice work"}`, true},
		{"wrong type", `{"headline":7,"tips":["stretch"]}`, true},
		{"enum violation", `{"headline":"x","tips":["a"],"tone":"harsh"}`, true},
		{"too many items", `{"headline":"x","tips":["a","b","c","d"]}`, true},
		{"empty headline", `{"headline":"","tips":["a"]}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(insightSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			var inv *ErrInvalidResponse
			if err != nil && !errors.As(err, &inv) {
				t.Fatalf("expected ErrInvalidResponse, got %T", err)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`anything`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_NestedObjects(t *testing.T) {
	schema := &Schema{
		Name: "test-nested",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"focus": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":       "object",
						"properties": map[string]any{"area": map[string]any{"type": "string"}},
						"required":   []string{"area"},
					},
				},
			},
			"required": []string{"focus"},
		},
	}

	if err := validateResponse(schema, json.RawMessage(`{"focus":[{"area":"sleep"}]}`)); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if err := validateResponse(schema, json.RawMessage(`{"focus":[{"action":"rest"}]}`)); err == nil {
		t.Fatal("expected error for missing nested field")
	}
}
