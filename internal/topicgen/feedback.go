package topicgen

import (
	"encoding/json"
	"strings"

	"github.com/biilim/biilim/internal/llm"
)

// Feedback is the structured evaluation of a student's explanation.
type Feedback struct {
	Summary   string   `json:"summary"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
	NextSteps []string `json:"next_steps"`
}

// ValidateFeedback parses raw model output against FeedbackSchema, with
// the same unwrapping rules as ValidateTopic.
func ValidateFeedback(raw []byte) (*Feedback, error) {
	body := Unwrap(raw)
	if _, err := llm.ValidateJSON(FeedbackSchema, body); err != nil {
		return nil, schemaError(err)
	}
	var fb Feedback
	if err := json.Unmarshal(body, &fb); err != nil {
		return nil, &ValidationError{Message: "decode: " + err.Error(), Err: err}
	}
	return &fb, nil
}

// Text renders the feedback as a chat message.
func (f *Feedback) Text() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(f.Summary))
	list := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteString("\n\n")
		b.WriteString(title)
		b.WriteString(":")
		for _, it := range items {
			b.WriteString("\n- ")
			b.WriteString(strings.TrimSpace(it))
		}
	}
	list("Strengths", f.Strengths)
	list("Gaps", f.Gaps)
	list("Next steps", f.NextSteps)
	return strings.TrimSpace(b.String())
}
