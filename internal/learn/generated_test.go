package learn

import (
	"errors"
	"testing"
)

func abcd(correct string) GeneratedQuestion {
	return GeneratedQuestion{
		QuestionText: "q",
		Choices: []GeneratedChoice{
			{Letter: "A", Text: "a"}, {Letter: "B", Text: "b"},
			{Letter: "C", Text: "c"}, {Letter: "D", Text: "d"},
		},
		CorrectAnswerLetter: correct,
	}
}

func TestGeneratedTopic_CheckIntegrity(t *testing.T) {
	topic := &GeneratedTopic{
		Title: "T",
		Quiz:  GeneratedQuiz{Questions: []GeneratedQuestion{abcd("A")}},
		Sections: []GeneratedSection{
			{Title: "S1", Quiz: GeneratedQuiz{Questions: []GeneratedQuestion{abcd("B")}}},
			{Title: "S2", Quiz: GeneratedQuiz{Questions: []GeneratedQuestion{abcd("E")}}},
		},
	}
	err := topic.CheckIntegrity()
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
	if ie.Path != "sections[1].quiz.questions[0]" {
		t.Errorf("path = %q", ie.Path)
	}

	topic.Sections[1].Quiz.Questions[0].CorrectAnswerLetter = "D"
	if err := topic.CheckIntegrity(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if topic.CountQuestions() != 3 {
		t.Errorf("CountQuestions = %d, want 3", topic.CountQuestions())
	}
}
