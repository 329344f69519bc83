package topicgen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/biilim/biilim/internal/learn"
	"github.com/biilim/biilim/internal/llm"
)

var fencePattern = regexp.MustCompile("(?s)```[a-zA-Z]*[ \t]*\r?\n?(.*?)\r?\n?```")

// choiceLetters is the exact letter set every question must carry.
var choiceLetters = []string{"A", "B", "C", "D"}

// Unwrap strips the wrappers models put around JSON: surrounding
// whitespace, prose around the first markdown fence and one level of JSON
// string encoding, in any combination. A body that already starts as an
// object or array is left alone, so fences inside its strings survive.
func Unwrap(raw []byte) []byte {
	body := bytes.TrimSpace(raw)
	for range 3 {
		if len(body) == 0 || body[0] == '{' || body[0] == '[' {
			break
		}
		if body[0] == '"' {
			var inner string
			if err := json.Unmarshal(body, &inner); err != nil {
				break
			}
			body = bytes.TrimSpace([]byte(inner))
			continue
		}
		m := fencePattern.FindSubmatch(body)
		if m == nil {
			break
		}
		body = bytes.TrimSpace(m[1])
	}
	return body
}

// ValidateTopic turns raw model output into a GeneratedTopic or a
// *ValidationError. It never returns a partially filled topic.
func ValidateTopic(raw []byte) (*learn.GeneratedTopic, error) {
	body := Unwrap(raw)
	if len(body) == 0 {
		return nil, &ValidationError{Message: "empty response"}
	}

	if _, err := llm.ValidateJSON(TopicSchema, body); err != nil {
		return nil, schemaError(err)
	}

	var t learn.GeneratedTopic
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, &ValidationError{Message: "decode: " + err.Error(), Err: err}
	}

	if err := checkSemantics(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

func schemaError(err error) error {
	var sv *llm.SchemaViolation
	if errors.As(err, &sv) {
		return &ValidationError{Field: sv.Path, Message: sv.Message, Err: err}
	}
	return &ValidationError{Message: err.Error(), Err: err}
}

func checkSemantics(t *learn.GeneratedTopic) error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Field: "title", Message: "must not be blank"}
	}
	if t.Duration < 0 {
		return &ValidationError{Field: "duration", Message: fmt.Sprintf("must be >= 0, got %d", t.Duration)}
	}

	if err := t.CheckIntegrity(); err != nil {
		var ie *learn.IntegrityError
		if errors.As(err, &ie) {
			return &ValidationError{Field: ie.Path, Message: ie.Message, Err: err}
		}
		return err
	}

	if err := checkLetters("quiz", t.Quiz); err != nil {
		return err
	}
	for i, s := range t.Sections {
		if err := checkLetters(fmt.Sprintf("sections[%d].quiz", i), s.Quiz); err != nil {
			return err
		}
	}
	return nil
}

// checkLetters requires each question to offer A, B, C and D once each.
func checkLetters(path string, q learn.GeneratedQuiz) error {
	for i, question := range q.Questions {
		seen := make(map[string]bool, len(question.Choices))
		for _, c := range question.Choices {
			if seen[c.Letter] {
				return &ValidationError{
					Field:   fmt.Sprintf("%s.questions[%d].choices", path, i),
					Message: fmt.Sprintf("letter %q appears twice", c.Letter),
				}
			}
			seen[c.Letter] = true
		}
		for _, l := range choiceLetters {
			if !seen[l] {
				return &ValidationError{
					Field:   fmt.Sprintf("%s.questions[%d].choices", path, i),
					Message: fmt.Sprintf("want exactly the letters A-D, missing %q", l),
				}
			}
		}
	}
	return nil
}
