package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biilim/biilim/internal/chat"
	"github.com/biilim/biilim/internal/grading"
	"github.com/biilim/biilim/internal/ingest"
	"github.com/biilim/biilim/internal/llm"
	"github.com/biilim/biilim/internal/store"
	"github.com/biilim/biilim/internal/topicgen"
)

const testEmail = "learner@example.com"

type harness struct {
	router http.Handler
	store  *store.Store
}

func newHarness(t *testing.T, p llm.Provider) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	r := NewRouter(Deps{
		Store:       s,
		Topics:      topicgen.NewService(p, ingest.New(s, nil), s.TopicRepo(), topicgen.DefaultConfig(), nil),
		Grader:      grading.New(s, nil),
		Chat:        chat.New(s, p, chat.DefaultConfig(), nil),
		CORSOrigins: []string{"http://localhost:5173"},
	})
	return &harness{router: r, store: s}
}

func (h *harness) do(t *testing.T, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set(headerUserEmail, testEmail)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type topicResp struct {
	Topic   topicView `json:"topic"`
	Created bool      `json:"created"`
}

func (h *harness) generate(t *testing.T) topicView {
	t.Helper()
	rec := h.do(t, http.MethodGet, "/api/topics/search?query=linear+algebra", "", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[topicResp](t, rec).Topic
}

func TestHealthzNeedsNoUser(t *testing.T) {
	h := newHarness(t, llm.NewFixtureProvider())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))
}

func TestMissingUserHeader(t *testing.T) {
	h := newHarness(t, llm.NewFixtureProvider())
	req := httptest.NewRequest(http.MethodGet, "/api/topics", nil)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decode[ErrorEnvelope](t, rec).Error.Code)
}

func TestRequestIDEchoed(t *testing.T) {
	h := newHarness(t, llm.NewFixtureProvider())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(headerRequestID, "abc-123")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(headerRequestID))
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t, llm.NewFixtureProvider())
	req := httptest.NewRequest(http.MethodOptions, "/api/topics", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSearchGeneratesThenReuses(t *testing.T) {
	h := newHarness(t, llm.NewFixtureProvider())
	topic := h.generate(t)
	assert.Equal(t, "Linear Algebra Basics", topic.Title)
	assert.Len(t, topic.Sections, 3)
	require.NotNil(t, topic.OwnerID)

	rec := h.do(t, http.MethodGet, "/api/topics/search?query=LINEAR+ALGEBRA+BASICS", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[topicResp](t, rec)
	assert.False(t, got.Created)
	assert.Equal(t, topic.ID, got.Topic.ID)

	rec = h.do(t, http.MethodGet, "/api/topics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Topics []topicView `json:"topics"`
	}](t, rec)
	assert.Len(t, list.Topics, 1)
}

func TestSearchConflict(t *testing.T) {
	h := newHarness(t, llm.NewFixtureProvider())
	topic := h.generate(t)

	// The fixture always answers with the same title.
	rec := h.do(t, http.MethodGet, "/api/topics/search?query=vectors", "", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	env := decode[ErrorEnvelope](t, rec)
	assert.Equal(t, "topic_exists", env.Error.Code)
	assert.Equal(t, topic.ID, env.Error.ExistingTopicID)
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		resp   llm.MockResponse
		status int
		code   string
	}{
		{"blank query", "+", llm.MockText("{}"), http.StatusBadRequest, "invalid_request"},
		{"invalid output", "x", llm.MockText(`{"title":"x"}`), http.StatusUnprocessableEntity, "generation_invalid"},
		{"vendor down", "x", llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("secret vendor detail")}},
			http.StatusBadGateway, "generation_unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, llm.NewMockProvider(tt.resp))
			rec := h.do(t, http.MethodGet, "/api/topics/search?query="+tt.query, "", "")
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decode[ErrorEnvelope](t, rec).Error.Code)
			assert.NotContains(t, rec.Body.String(), "secret vendor detail")
		})
	}
}

func TestSearchRefusedQuery(t *testing.T) {
	h := newHarness(t, llm.NewMockProvider(llm.MockResponse{StopReason: "refused"}))
	rec := h.do(t, http.MethodGet, "/api/topics/search?query=something+edgy", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	env := decode[ErrorEnvelope](t, rec)
	assert.Equal(t, "query_refused", env.Error.Code)
	assert.Contains(t, env.Error.Message, "rephrasing")
	assert.NotContains(t, env.Error.Message, "blank")
}

func TestGetTopicIncludesQuizIDs(t *testing.T) {
	h := newHarness(t, llm.NewFixtureProvider())
	topic := h.generate(t)

	rec := h.do(t, http.MethodGet, fmt.Sprintf("/api/topics/%d", topic.ID), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[topicResp](t, rec).Topic
	assert.NotZero(t, got.QuizID)
	for _, s := range got.Sections {
		assert.NotZero(t, s.QuizID)
	}

	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/api/topics/9999", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodGet, "/api/topics/abc", "", "").Code)
}

type quizResp struct {
	Quiz quizView `json:"quiz"`
}

type resultResp struct {
	Result resultView `json:"result"`
}

func (h *harness) topicQuiz(t *testing.T) quizView {
	t.Helper()
	topic := h.generate(t)
	rec := h.do(t, http.MethodGet, fmt.Sprintf("/api/topics/%d", topic.ID), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	quizID := decode[topicResp](t, rec).Topic.QuizID

	rec = h.do(t, http.MethodGet, fmt.Sprintf("/api/quizzes/%d", quizID), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	return decode[quizResp](t, rec).Quiz
}

func TestQuizHidesAnswerKey(t *testing.T) {
	h := newHarness(t, llm.NewFixtureProvider())
	quiz := h.topicQuiz(t)
	assert.True(t, quiz.IsGraded)
	require.Len(t, quiz.Questions, 4)

	rec := h.do(t, http.MethodGet, fmt.Sprintf("/api/quizzes/%d", quiz.ID), "", "")
	assert.NotContains(t, rec.Body.String(), "correct")
}

func TestSubmitQuizForm(t *testing.T) {
	h := newHarness(t, llm.NewFixtureProvider())
	quiz := h.topicQuiz(t)

	// Fixture answer key: D, A, B, C.
	form := url.Values{}
	form.Set("quiz_id", fmt.Sprint(quiz.ID))
	form.Set(fmt.Sprintf("question-%d", quiz.Questions[0].ID), "D")
	form.Set(fmt.Sprintf("question-%d", quiz.Questions[1].ID), "A")
	form.Set(fmt.Sprintf("question-%d", quiz.Questions[2].ID), "C")

	rec := h.do(t, http.MethodPost, "/api/quizzes/submit", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[resultResp](t, rec).Result
	assert.Equal(t, 2, res.CorrectCount)
	assert.Equal(t, 4, res.TotalCount)
	assert.InDelta(t, 50.0, res.ScorePercent, 0.001)
	assert.Len(t, res.Answers, 3)

	rec = h.do(t, http.MethodGet, fmt.Sprintf("/api/quizzes/%d/answers", quiz.ID), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[struct {
		Answers []answerView `json:"answers"`
		Overall struct {
			Answered int `json:"answered"`
			Correct  int `json:"correct"`
		} `json:"overall"`
	}](t, rec)
	assert.Len(t, history.Answers, 3)
	assert.Equal(t, 3, history.Overall.Answered)
	assert.Equal(t, 2, history.Overall.Correct)
}

func TestSubmitQuizJSON(t *testing.T) {
	h := newHarness(t, llm.NewFixtureProvider())
	quiz := h.topicQuiz(t)

	body := fmt.Sprintf(`{"quiz_id": %d, "question-%d": "D"}`, quiz.ID, quiz.Questions[0].ID)
	rec := h.do(t, http.MethodPost, "/api/quizzes/submit", "application/json", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[resultResp](t, rec).Result
	assert.Equal(t, 1, res.CorrectCount)
	assert.InDelta(t, 25.0, res.ScorePercent, 0.001)
}

func TestSubmitQuizBadRequests(t *testing.T) {
	h := newHarness(t, llm.NewFixtureProvider())
	assert.Equal(t, http.StatusBadRequest,
		h.do(t, http.MethodPost, "/api/quizzes/submit", "application/json", `{"question-1":"A"}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		h.do(t, http.MethodPost, "/api/quizzes/submit", "application/json", `{"quiz_id":1,"question-x":"A"}`).Code)
	assert.Equal(t, http.StatusNotFound,
		h.do(t, http.MethodPost, "/api/quizzes/submit", "application/json", `{"quiz_id":999}`).Code)
}

type messagesResp struct {
	Messages []messageView `json:"messages"`
}

func TestChatFlow(t *testing.T) {
	h := newHarness(t, llm.NewFixtureProvider())
	topic := h.generate(t)
	path := fmt.Sprintf("/api/topics/%d/chat", topic.ID)

	rec := h.do(t, http.MethodGet, path, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	msgs := decode[messagesResp](t, rec).Messages
	require.Len(t, msgs, 1)
	assert.Equal(t, "welcome_message", string(msgs[0].ChatType))

	rec = h.do(t, http.MethodPost, path, "application/json", `{"chat_type":"general_chat","user_message":"What is a vector?"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decode[struct {
		Reply string `json:"reply"`
	}](t, rec).Reply)

	form := url.Values{"chat_type": {"explanation"}, "user_message": {"A vector has size and direction."}}
	rec = h.do(t, http.MethodPost, path, "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodGet, path, "", "")
	msgs = decode[messagesResp](t, rec).Messages
	require.Len(t, msgs, 5)
	assert.Equal(t, "explanation_submission", string(msgs[3].ChatType))
	assert.Equal(t, "evaluation_feedback", string(msgs[4].ChatType))
}

func TestChatBadRequests(t *testing.T) {
	h := newHarness(t, llm.NewFixtureProvider())
	topic := h.generate(t)
	path := fmt.Sprintf("/api/topics/%d/chat", topic.ID)

	for _, ct := range []string{"welcome_message", "evaluation_feedback", "shout"} {
		rec := h.do(t, http.MethodPost, path, "application/json", fmt.Sprintf(`{"chat_type":%q,"user_message":"hi"}`, ct))
		assert.Equal(t, http.StatusBadRequest, rec.Code, ct)
	}
	assert.Equal(t, http.StatusBadRequest,
		h.do(t, http.MethodPost, path, "application/json", `{"user_message":"  "}`).Code)
	assert.Equal(t, http.StatusNotFound,
		h.do(t, http.MethodPost, "/api/topics/999/chat", "application/json", `{"user_message":"hi"}`).Code)
}

func TestProfileRoundTrip(t *testing.T) {
	h := newHarness(t, llm.NewFixtureProvider())

	rec := h.do(t, http.MethodGet, "/api/me/profile", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decode[struct {
		Profile profileView `json:"profile"`
	}](t, rec).Profile
	assert.Nil(t, empty.Age)
	assert.Empty(t, empty.LearningStyles)

	body := `{"age":14,"city":"Almaty","country":"Kazakhstan","hobbies":["chess","football"],"learning_styles":["Visual","real_world"]}`
	rec = h.do(t, http.MethodPut, "/api/me/profile", "application/json", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodGet, "/api/me/profile", "", "")
	got := decode[struct {
		Profile profileView `json:"profile"`
	}](t, rec).Profile
	require.NotNil(t, got.Age)
	assert.Equal(t, 14, *got.Age)
	assert.Equal(t, "Almaty", got.City)
	assert.Equal(t, []string{"chess", "football"}, got.Hobbies)
	assert.Equal(t, []string{"visual", "real_world"}, got.LearningStyles)

	rec = h.do(t, http.MethodPut, "/api/me/profile", "application/json", `{"learning_styles":["telepathy"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteTopicOwnerOnly(t *testing.T) {
	h := newHarness(t, llm.NewFixtureProvider())
	topic := h.generate(t)
	path := fmt.Sprintf("/api/topics/%d", topic.ID)

	req := httptest.NewRequest(http.MethodDelete, path, nil)
	req.Header.Set(headerUserEmail, "someone-else@example.com")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	assert.Equal(t, http.StatusNoContent, h.do(t, http.MethodDelete, path, "", "").Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, path, "", "").Code)
}

func TestParseSubmission(t *testing.T) {
	quizID, answers, err := parseSubmission(map[string]string{
		"quiz_id":    "7",
		"question-3": " b ",
		"question-4": "",
		"csrf_token": "x",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), quizID)
	assert.Equal(t, map[int64]string{3: "b", 4: ""}, answers)
}
