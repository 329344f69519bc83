package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biilim/biilim/internal/learn"
	"github.com/biilim/biilim/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func count(t *testing.T, s *store.Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func question(text, correct string) learn.GeneratedQuestion {
	q := learn.GeneratedQuestion{QuestionText: text, CorrectAnswerLetter: correct}
	for _, l := range []string{"A", "B", "C", "D"} {
		q.Choices = append(q.Choices, learn.GeneratedChoice{Letter: l, Text: "option " + l})
	}
	return q
}

func sampleTopic(title string, sections int) *learn.GeneratedTopic {
	t := &learn.GeneratedTopic{
		Title:       title,
		Description: "about " + title,
		Duration:    45,
		SupplementaryPrompts: []learn.SupplementaryPrompt{
			{Style: "visual", Prompt: "draw it"},
		},
		Quiz: learn.GeneratedQuiz{Questions: []learn.GeneratedQuestion{question("topic q1", "A"), question("topic q2", "B")}},
	}
	for i := range sections {
		t.Sections = append(t.Sections, learn.GeneratedSection{
			Title:   fmt.Sprintf("Section %d", i+1),
			Content: "content",
			Index:   99, // ignored: position wins
			Quiz:    learn.GeneratedQuiz{Questions: []learn.GeneratedQuestion{question("section q", "C")}},
		})
	}
	return t
}

func TestIngest_WritesWholeGraph(t *testing.T) {
	s := openStore(t)
	ing := New(s, nil)

	topic, err := ing.Ingest(t.Context(), nil, sampleTopic("Optics", 3))
	require.NoError(t, err)

	assert.Equal(t, "Optics", topic.Title)
	assert.Nil(t, topic.OwnerID)
	require.Len(t, topic.Sections, 3)
	for i, sec := range topic.Sections {
		assert.Equal(t, i, sec.Index)
	}
	assert.Equal(t, []learn.SupplementaryPrompt{{Style: "visual", Prompt: "draw it"}}, topic.SupplementaryPrompts)

	assert.Equal(t, 1, count(t, s, "topics"))
	assert.Equal(t, 3, count(t, s, "sections"))
	assert.Equal(t, 4, count(t, s, "quizzes"))
	assert.Equal(t, 5, count(t, s, "questions"))
	assert.Equal(t, 20, count(t, s, "choices"))

	quiz, err := s.TopicRepo().QuizForTopic(t.Context(), topic.ID)
	require.NoError(t, err)
	assert.True(t, quiz.IsGraded)
	assert.Equal(t, learn.TopicOwner{TopicID: topic.ID}, quiz.Owner)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, "topic q1", quiz.Questions[0].Text)

	sq, err := s.TopicRepo().QuizForSection(t.Context(), topic.Sections[0].ID)
	require.NoError(t, err)
	assert.False(t, sq.IsGraded)
}

type failingWriter struct {
	GraphWriter
	failAtSection int
	sections      int
}

func (f *failingWriter) InsertSection(ctx context.Context, sec learn.Section) (int64, error) {
	f.sections++
	if f.sections == f.failAtSection {
		return 0, errors.New("disk on fire")
	}
	return f.GraphWriter.InsertSection(ctx, sec)
}

func TestIngest_FailureMidGraphLeavesNothing(t *testing.T) {
	s := openStore(t)
	ing := New(s, nil, WithWriter(func(w GraphWriter) GraphWriter {
		return &failingWriter{GraphWriter: w, failAtSection: 2}
	}))

	_, err := ing.Ingest(t.Context(), nil, sampleTopic("Optics", 4))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")

	for _, table := range []string{"topics", "sections", "quizzes", "questions", "choices"} {
		assert.Zero(t, count(t, s, table), table)
	}
}

func TestIngest_DuplicateTitleConflicts(t *testing.T) {
	s := openStore(t)
	ing := New(s, nil)

	first, err := ing.Ingest(t.Context(), nil, sampleTopic("Optics", 1))
	require.NoError(t, err)

	_, err = ing.Ingest(t.Context(), nil, sampleTopic("optics", 2))
	var conflict *learn.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first.ID, conflict.ExistingID)
	assert.Equal(t, 1, count(t, s, "topics"))
	assert.Equal(t, 1, count(t, s, "sections"))
}

func TestIngest_ConcurrentSameTitle(t *testing.T) {
	s := openStore(t)
	ing := New(s, nil)

	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = ing.Ingest(t.Context(), nil, sampleTopic("Optics", 2))
		}()
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		var conflict *learn.ConflictError
		switch {
		case err == nil:
			ok++
		case errors.As(err, &conflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, 1, count(t, s, "topics"))
	assert.Equal(t, 2, count(t, s, "sections"))
}

func TestIngest_IntegrityDefectRejectedBeforeWrite(t *testing.T) {
	s := openStore(t)
	gen := sampleTopic("Optics", 2)
	gen.Sections[1].Quiz.Questions[0].CorrectAnswerLetter = "E"

	_, err := New(s, nil).Ingest(t.Context(), nil, gen)
	var ie *learn.IntegrityError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "sections[1].quiz.questions[0]", ie.Path)
	assert.Zero(t, count(t, s, "topics"))
}

func TestIngest_EmptySectionsAndQuestions(t *testing.T) {
	s := openStore(t)
	gen := &learn.GeneratedTopic{Title: "Empty", Description: "nothing yet"}

	topic, err := New(s, nil).Ingest(t.Context(), nil, gen)
	require.NoError(t, err)
	assert.Empty(t, topic.Sections)
	assert.Empty(t, topic.SupplementaryPrompts)

	quiz, err := s.TopicRepo().QuizForTopic(t.Context(), topic.ID)
	require.NoError(t, err)
	assert.Empty(t, quiz.Questions)
}

func TestIngest_RecordsOwner(t *testing.T) {
	s := openStore(t)
	user, err := s.UserRepo().EnsureUser(t.Context(), "ada@example.com", "Ada")
	require.NoError(t, err)

	topic, err := New(s, nil).Ingest(t.Context(), &user.ID, sampleTopic("Optics", 1))
	require.NoError(t, err)
	require.NotNil(t, topic.OwnerID)
	assert.Equal(t, user.ID, *topic.OwnerID)
}
