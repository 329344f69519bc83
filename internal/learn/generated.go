package learn

import "fmt"

// GeneratedTopic is the validated shape of an AI topic generation
// response. It is a pure DTO; persistence happens during ingestion.
type GeneratedTopic struct {
	Title                string                `json:"title"`
	Description          string                `json:"description"`
	Duration             int                   `json:"duration"`
	IsRecommended        bool                  `json:"is_recommended"`
	SupplementaryPrompts []SupplementaryPrompt `json:"supplementary_prompts"`
	Sections             []GeneratedSection    `json:"sections"`
	Quiz                 GeneratedQuiz         `json:"quiz"`
}

// GeneratedSection is one section with its ungraded quiz.
type GeneratedSection struct {
	Title   string        `json:"title"`
	Content string        `json:"content"`
	Index   int           `json:"index"`
	Quiz    GeneratedQuiz `json:"quiz"`
}

// GeneratedQuiz holds the questions of a topic or section quiz.
type GeneratedQuiz struct {
	Questions []GeneratedQuestion `json:"questions"`
}

// GeneratedQuestion is a multiple-choice question.
type GeneratedQuestion struct {
	QuestionText        string            `json:"question_text"`
	Choices             []GeneratedChoice `json:"choices"`
	CorrectAnswerLetter string            `json:"correct_answer_letter"`
}

// GeneratedChoice is one lettered option.
type GeneratedChoice struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// CountQuestions returns the number of questions across the topic quiz and
// every section quiz.
func (t *GeneratedTopic) CountQuestions() int {
	n := len(t.Quiz.Questions)
	for _, s := range t.Sections {
		n += len(s.Quiz.Questions)
	}
	return n
}

// CheckIntegrity reports the first question whose correct answer letter
// has no matching choice.
func (t *GeneratedTopic) CheckIntegrity() error {
	if err := t.Quiz.checkIntegrity("quiz"); err != nil {
		return err
	}
	for i, s := range t.Sections {
		if err := s.Quiz.checkIntegrity(fmt.Sprintf("sections[%d].quiz", i)); err != nil {
			return err
		}
	}
	return nil
}

func (q GeneratedQuiz) checkIntegrity(path string) error {
	for i, question := range q.Questions {
		found := false
		for _, c := range question.Choices {
			if c.Letter == question.CorrectAnswerLetter {
				found = true
				break
			}
		}
		if !found {
			return &IntegrityError{
				Path:    fmt.Sprintf("%s.questions[%d]", path, i),
				Message: fmt.Sprintf("correct answer %q has no matching choice", question.CorrectAnswerLetter),
			}
		}
	}
	return nil
}
