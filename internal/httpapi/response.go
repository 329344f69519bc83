package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/biilim/biilim/internal/chat"
	"github.com/biilim/biilim/internal/learn"
	"github.com/biilim/biilim/internal/llm"
	"github.com/biilim/biilim/internal/topicgen"
)

// APIError is the body of every error response.
type APIError struct {
	Message         string `json:"message"`
	Code            string `json:"code,omitempty"`
	ExistingTopicID int64  `json:"existing_topic_id,omitempty"`
}

// ErrorEnvelope wraps APIError.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

// fail maps domain errors onto status codes. Messages are fixed strings so
// vendor error text never reaches the client.
func (s *server) fail(c *gin.Context, err error) {
	var (
		conflict   *learn.ConflictError
		validation *topicgen.ValidationError
		integrity  *learn.IntegrityError
		service    *topicgen.ServiceError
		refused    *llm.ErrRefused
	)
	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, ErrorEnvelope{Error: APIError{
			Message:         "a topic with this title already exists",
			Code:            "topic_exists",
			ExistingTopicID: conflict.ExistingID,
		}})
		return
	case errors.As(err, &refused):
		abort(c, http.StatusBadRequest, "query_refused",
			"the topic generator declined this query, please try rephrasing it")
		return
	case errors.As(err, &validation) && validation.Field == "query":
		abort(c, http.StatusBadRequest, "invalid_request", "query must not be blank")
		return
	case errors.As(err, &validation), errors.As(err, &integrity):
		abort(c, http.StatusUnprocessableEntity, "generation_invalid",
			"couldn't generate a topic for this query, please try rephrasing it")
		return
	case errors.As(err, &service):
		abort(c, http.StatusBadGateway, "generation_unavailable",
			"the topic generator is unavailable, please try again later")
		return
	case errors.Is(err, learn.ErrNotFound):
		abort(c, http.StatusNotFound, "not_found", "not found")
		return
	case errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, chat.ErrChatType):
		abort(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	s.log.Error("request failed", "path", c.FullPath(), "request_id", c.GetString(ctxRequestID), "error", err)
	abort(c, http.StatusInternalServerError, "internal_error", "internal error")
}

func badRequest(c *gin.Context, msg string) {
	abort(c, http.StatusBadRequest, "invalid_request", msg)
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
