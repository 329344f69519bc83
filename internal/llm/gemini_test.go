package llm

import (
	"errors"
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
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":    map[string]any{"type": "string"},
			"duration": map[string]any{"type": "integer", "minimum": 1, "maximum": 600.0},
			"sections": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{"type": "string"},
					},
				},
			},
			"quiz": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"correct_answer_letter": map[string]any{"type": "string", "enum": []any{"A", "B", "C", "D"}},
				},
			},
		},
		"required": []any{"title", "duration", "sections", "missing"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(schema.Properties))
	}
	duration := schema.Properties["duration"]
	if duration.Type != genai.TypeInteger {
		t.Fatalf("expected INTEGER for duration, got %s", duration.Type)
	}
	if duration.Minimum == nil || *duration.Minimum != 1 || duration.Maximum == nil || *duration.Maximum != 600 {
		t.Fatalf("duration bounds = %v..%v", duration.Minimum, duration.Maximum)
	}
	sections := schema.Properties["sections"]
	if sections.Type != genai.TypeArray || sections.Items.Type != genai.TypeObject {
		t.Fatalf("sections = %s of %s", sections.Type, sections.Items.Type)
	}
	if sections.MinItems == nil || *sections.MinItems != 1 {
		t.Fatalf("sections minItems = %v", sections.MinItems)
	}
	letter := schema.Properties["quiz"].Properties["correct_answer_letter"]
	if len(letter.Enum) != 4 {
		t.Fatalf("expected 4 enum values, got %d", len(letter.Enum))
	}
	if len(schema.Required) != 4 {
		t.Fatalf("expected 4 required fields, got %d", len(schema.Required))
	}
	want := []string{"title", "duration", "sections"}
	if len(schema.PropertyOrdering) != len(want) {
		t.Fatalf("ordering = %v, want %v", schema.PropertyOrdering, want)
	}
	for i := range want {
		if schema.PropertyOrdering[i] != want[i] {
			t.Fatalf("ordering = %v, want %v", schema.PropertyOrdering, want)
		}
	}
}

func TestBuildGeminiSchema_GoLiteralRequired(t *testing.T) {
	schema := buildGeminiSchema(map[string]any{
		"type":       "object",
		"properties": map[string]any{"summary": map[string]any{"type": "string"}},
		"required":   []string{"summary"},
	})
	if len(schema.Required) != 1 || len(schema.PropertyOrdering) != 1 {
		t.Fatalf("required = %v ordering = %v", schema.Required, schema.PropertyOrdering)
	}
}

func TestGeminiStop(t *testing.T) {
	candidate := func(r genai.FinishReason) *genai.GenerateContentResponse {
		return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: r}}}
	}
	tests := []struct {
		name   string
		result *genai.GenerateContentResponse
		want   string
	}{
		{"stop", candidate(genai.FinishReasonStop), stopEnd},
		{"max tokens", candidate(genai.FinishReasonMaxTokens), stopMaxTokens},
		{"safety", candidate(genai.FinishReasonSafety), stopRefused},
		{"recitation", candidate(genai.FinishReasonRecitation), stopRefused},
		{"no candidates", &genai.GenerateContentResponse{}, stopEnd},
		{"prompt blocked", &genai.GenerateContentResponse{
			PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: "SAFETY"},
		}, stopRefused},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, refusal := geminiStop(tt.result)
			if got != tt.want {
				t.Fatalf("stop = %q, want %q", got, tt.want)
			}
			if (got == stopRefused) != (refusal != "") {
				t.Fatalf("refusal = %q for stop %q", refusal, got)
			}
		})
	}
}

func TestFinish_RefusalIsNotRetried(t *testing.T) {
	_, err := finish(Request{}, &Response{StopReason: stopRefused}, "prompt blocked (safety)")
	var refused *ErrRefused
	if !errors.As(err, &refused) || refused.Reason != "prompt blocked (safety)" {
		t.Fatalf("expected ErrRefused, got %v", err)
	}
	if IsTransient(err) {
		t.Fatal("refusals must not be transient")
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(t.Context(), GeminiConfig{Model: "gemini-flash"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
