package topicgen

import "github.com/biilim/biilim/internal/llm"

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func object(props map[string]any, required ...any) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func array(items map[string]any, desc string) map[string]any {
	return map[string]any{"type": "array", "items": items, "description": desc}
}

var quizDefinition = object(map[string]any{
	"questions": array(object(map[string]any{
		"question_text": str("The question"),
		"choices": array(object(map[string]any{
			"letter": map[string]any{"type": "string", "enum": []any{"A", "B", "C", "D"}},
			"text":   str("Choice text"),
		}, "letter", "text"), "Exactly four choices lettered A-D"),
		"correct_answer_letter": str("Letter of the correct choice"),
	}, "question_text", "choices", "correct_answer_letter"), "Multiple-choice questions"),
}, "questions")

// TopicSchema describes a generated lesson: the topic, its sections with
// their quizzes and the whole-topic quiz. Letter sets, duration bounds and
// answer consistency are checked after decoding.
var TopicSchema = &llm.Schema{
	Name:        "topic",
	Description: "A personalized lesson with sections, quizzes and supplementary prompts",
	Definition: object(map[string]any{
		"title":       str("Short topic title (2-6 words)"),
		"description": str("One or two sentences describing the topic"),
		"duration": map[string]any{
			"type":        "integer",
			"description": "Estimated study time in minutes",
		},
		"is_recommended": map[string]any{"type": "boolean"},
		"supplementary_prompts": array(object(map[string]any{
			"style":  str("Learning style key, e.g. visual"),
			"prompt": str("Activity prompt in that style"),
		}, "style", "prompt"), "One prompt per requested learning style"),
		"sections": array(object(map[string]any{
			"title":   str("Section title"),
			"content": str("Section body in plain text"),
			"index":   map[string]any{"type": "integer", "description": "Zero-based position"},
			"quiz":    quizDefinition,
		}, "title", "content", "index", "quiz"), "Sections in reading order"),
		"quiz": quizDefinition,
	}, "title", "description", "duration", "is_recommended", "supplementary_prompts", "sections", "quiz"),
}

// FeedbackSchema describes the evaluation of a student's explanation.
var FeedbackSchema = &llm.Schema{
	Name:        "explanation-feedback",
	Description: "Structured feedback on a student's explanation of a topic",
	Definition: object(map[string]any{
		"summary":    str("One-sentence verdict"),
		"strengths":  array(map[string]any{"type": "string"}, "What the explanation gets right"),
		"gaps":       array(map[string]any{"type": "string"}, "Missing ideas or misconceptions"),
		"next_steps": array(map[string]any{"type": "string"}, "Concrete things to study or try next"),
	}, "summary", "strengths", "gaps", "next_steps"),
}
