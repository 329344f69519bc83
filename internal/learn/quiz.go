package learn

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrQuizOwnerRequired is returned when a quiz is built without a
	// topic or section association.
	ErrQuizOwnerRequired = errors.New("quiz must belong to a topic or a section")

	// ErrGradedSectionQuiz is returned when a graded quiz is attached to a
	// section. Graded assessments are topic-level only.
	ErrGradedSectionQuiz = errors.New("graded quiz cannot belong to a section")
)

// QuizOwner is the parent of a quiz: exactly one of TopicOwner or
// SectionOwner. The interface is sealed so no other owner kind can exist.
type QuizOwner interface {
	quizOwner()
	String() string
}

// TopicOwner attaches a quiz to a whole topic.
type TopicOwner struct {
	TopicID int64
}

// SectionOwner attaches a quiz to a single section.
type SectionOwner struct {
	SectionID int64
}

func (TopicOwner) quizOwner()   {}
func (SectionOwner) quizOwner() {}

func (o TopicOwner) String() string   { return fmt.Sprintf("topic:%d", o.TopicID) }
func (o SectionOwner) String() string { return fmt.Sprintf("section:%d", o.SectionID) }

// Quiz is a set of multiple-choice questions. Graded quizzes are whole-topic
// assessments; ungraded quizzes are per-section checks.
type Quiz struct {
	ID        int64
	Owner     QuizOwner
	IsGraded  bool
	Questions []Question
}

// NewQuiz builds a quiz after checking the association invariants.
func NewQuiz(owner QuizOwner, graded bool) (Quiz, error) {
	switch owner.(type) {
	case TopicOwner:
	case SectionOwner:
		if graded {
			return Quiz{}, ErrGradedSectionQuiz
		}
	default:
		return Quiz{}, ErrQuizOwnerRequired
	}
	return Quiz{Owner: owner, IsGraded: graded}, nil
}

// OwnerFromColumns rebuilds a QuizOwner from the nullable pair stored in
// the quizzes table. Both set or both nil is a data-integrity defect.
func OwnerFromColumns(topicID, sectionID *int64) (QuizOwner, error) {
	switch {
	case topicID != nil && sectionID != nil:
		return nil, fmt.Errorf("quiz has both topic %d and section %d", *topicID, *sectionID)
	case topicID != nil:
		return TopicOwner{TopicID: *topicID}, nil
	case sectionID != nil:
		return SectionOwner{SectionID: *sectionID}, nil
	default:
		return nil, ErrQuizOwnerRequired
	}
}

// Question is a single multiple-choice question within a quiz.
type Question struct {
	ID                  int64
	QuizID              int64
	Text                string
	CorrectAnswerLetter string
	Index               int
	Choices             []Choice
}

// HasChoice reports whether the question offers a choice with the letter.
func (q Question) HasChoice(letter string) bool {
	for _, c := range q.Choices {
		if c.Letter == letter {
			return true
		}
	}
	return false
}

// Choice is one lettered option of a question.
type Choice struct {
	ID         int64
	QuestionID int64
	Letter     string
	Text       string
}

// StudentAnswer records one user's selection for one question. Rows are
// append-only; each submission produces fresh rows.
type StudentAnswer struct {
	ID             int64
	UserID         int64
	QuestionID     int64
	SelectedLetter string
	IsCorrect      bool
	AnsweredAt     time.Time
}
