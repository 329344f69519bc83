package topicgen

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biilim/biilim/internal/ingest"
	"github.com/biilim/biilim/internal/learn"
	"github.com/biilim/biilim/internal/llm"
	"github.com/biilim/biilim/internal/store"
)

func newService(t *testing.T, p llm.Provider) (*Service, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewService(p, ingest.New(s, nil), s.TopicRepo(), DefaultConfig(), nil), s
}

func rows(t *testing.T, s *store.Store, query string) int {
	t.Helper()
	var n int
	require.NoError(t, s.DB().QueryRow(query).Scan(&n))
	return n
}

func TestGenerate_LinearAlgebraFixture(t *testing.T) {
	fixture := llm.NewFixtureProvider()
	svc, s := newService(t, fixture)

	topic, err := svc.Generate(t.Context(), nil, learn.Profile{}, "linear algebra")
	require.NoError(t, err)

	assert.Equal(t, 1, fixture.CallCount())
	assert.Equal(t, "Linear Algebra Basics", topic.Title)
	require.Len(t, topic.Sections, 3)

	assert.Equal(t, 1, rows(t, s, "SELECT COUNT(*) FROM topics"))
	assert.Equal(t, 1, rows(t, s, "SELECT COUNT(*) FROM quizzes WHERE is_graded AND topic_id IS NOT NULL"))
	assert.Equal(t, 3, rows(t, s, "SELECT COUNT(*) FROM sections"))
	assert.Equal(t, 3, rows(t, s, "SELECT COUNT(*) FROM quizzes WHERE NOT is_graded AND section_id IS NOT NULL"))

	quiz, err := s.TopicRepo().QuizForTopic(t.Context(), topic.ID)
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 4)
	choices := 0
	for _, q := range quiz.Questions {
		choices += len(q.Choices)
		assert.True(t, q.HasChoice(q.CorrectAnswerLetter))
	}
	assert.Equal(t, 16, choices)
}

func TestGenerate_SendsSchemaAndPurpose(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: encode(t, validTopic())})
	svc, _ := newService(t, mock)

	age := 12
	_, err := svc.Generate(t.Context(), nil, learn.Profile{Age: &age}, "photosynthesis")
	require.NoError(t, err)

	req := mock.LastCall()
	assert.Equal(t, TopicSchema, req.Schema)
	assert.Equal(t, DefaultConfig().MaxTokens, req.MaxTokens)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, "photosynthesis")
	assert.Contains(t, req.Messages[0].Content, "- Age: 12")
}

func TestGenerate_MissingDurationWritesNothing(t *testing.T) {
	var m map[string]any
	require.NoError(t, json.Unmarshal(encode(t, validTopic()), &m))
	delete(m, "duration")
	mock := llm.NewMockProvider(llm.MockResponse{Content: encode(t, m)})
	svc, s := newService(t, mock)

	_, err := svc.Generate(t.Context(), nil, learn.Profile{}, "photosynthesis")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Zero(t, rows(t, s, "SELECT COUNT(*) FROM topics"))
	assert.Zero(t, rows(t, s, "SELECT COUNT(*) FROM quizzes"))
}

func TestGenerate_ProviderFailureIsServiceError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("quota")}})
	svc, s := newService(t, mock)

	_, err := svc.Generate(t.Context(), nil, learn.Profile{}, "photosynthesis")
	var se *ServiceError
	require.ErrorAs(t, err, &se)
	var unavail *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
	assert.Zero(t, rows(t, s, "SELECT COUNT(*) FROM topics"))
}

func TestGenerate_TruncatedIsValidationError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"title":"Pho`), StopReason: "max_tokens"})
	svc, _ := newService(t, mock)

	_, err := svc.Generate(t.Context(), nil, learn.Profile{}, "photosynthesis")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestGenerate_RefusalBlamesQuery(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{StopReason: "refused"})
	svc, s := newService(t, mock)

	_, err := svc.Generate(t.Context(), nil, learn.Profile{}, "something unsafe")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "query", ve.Field)
	assert.Equal(t, 1, mock.CallCount())
	assert.Zero(t, rows(t, s, "SELECT COUNT(*) FROM topics"))
}

func TestGenerate_DuplicateTitleConflict(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: encode(t, validTopic())},
		llm.MockResponse{Content: encode(t, validTopic())},
	)
	svc, _ := newService(t, mock)

	first, err := svc.Generate(t.Context(), nil, learn.Profile{}, "plants")
	require.NoError(t, err)

	_, err = svc.Generate(t.Context(), nil, learn.Profile{}, "how plants eat")
	var conflict *learn.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first.ID, conflict.ExistingID)
}

func TestSearch_ExistingTopicSkipsGeneration(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: encode(t, validTopic())})
	svc, _ := newService(t, mock)

	created, isNew, err := svc.Search(t.Context(), nil, learn.Profile{}, "photosynthesis")
	require.NoError(t, err)
	assert.True(t, isNew)

	found, isNew, err := svc.Search(t.Context(), nil, learn.Profile{}, "  PHOTOSYNTHESIS ")
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, 1, mock.CallCount())
}

func TestSearch_BlankQuery(t *testing.T) {
	svc, _ := newService(t, llm.NewMockProvider())
	_, _, err := svc.Search(t.Context(), nil, learn.Profile{}, " ")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "query", ve.Field)
}
