package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const questionFieldPrefix = "question-"

// GET /api/quizzes/:id
func (s *server) getQuiz(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	q, err := s.store.QuizRepo().Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quiz": newQuizView(q)})
}

// GET /api/quizzes/:id/answers
func (s *server) quizAnswers(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := s.store.QuizRepo().Get(ctx, id); err != nil {
		s.fail(c, err)
		return
	}
	answers, err := s.store.AnswerRepo().ListForQuiz(ctx, currentUser(c).ID, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	total, correct, err := s.store.AnswerRepo().CountForUser(ctx, currentUser(c).ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"answers": newAnswerViews(answers),
		"overall": gin.H{"answered": total, "correct": correct},
	})
}

// POST /api/quizzes/submit
// Accepts a form or a flat JSON object with quiz_id and one
// question-{id} field per answered question.
func (s *server) submitQuiz(c *gin.Context) {
	fields, err := submissionFields(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	quizID, answers, err := parseSubmission(fields)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	res, err := s.grader.Submit(c.Request.Context(), quizID, currentUser(c).ID, answers)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": newResultView(res)})
}

func submissionFields(c *gin.Context) (map[string]string, error) {
	if c.ContentType() == binding.MIMEJSON {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(c.Request.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		out := make(map[string]string, len(raw))
		for k, v := range raw {
			var str string
			if err := json.Unmarshal(v, &str); err == nil {
				out[k] = str
				continue
			}
			out[k] = strings.TrimSpace(string(v))
		}
		return out, nil
	}
	if err := c.Request.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}
	out := make(map[string]string, len(c.Request.PostForm))
	for k := range c.Request.PostForm {
		out[k] = c.Request.PostForm.Get(k)
	}
	return out, nil
}

// parseSubmission extracts quiz_id and the question-{id} answers. Letters
// are passed through untouched; grading compares them exactly.
func parseSubmission(fields map[string]string) (int64, map[int64]string, error) {
	quizID, err := strconv.ParseInt(strings.TrimSpace(fields["quiz_id"]), 10, 64)
	if err != nil || quizID <= 0 {
		return 0, nil, fmt.Errorf("quiz_id is required")
	}
	answers := make(map[int64]string)
	for k, v := range fields {
		rest, ok := strings.CutPrefix(k, questionFieldPrefix)
		if !ok {
			continue
		}
		qid, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid field %q", k)
		}
		answers[qid] = strings.TrimSpace(v)
	}
	return quizID, answers, nil
}
