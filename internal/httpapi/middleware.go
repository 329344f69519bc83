package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/biilim/biilim/internal/learn"
	"github.com/biilim/biilim/internal/logger"
)

const (
	headerRequestID = "X-Request-Id"
	headerUserEmail = "X-User-Email"
	headerUserName  = "X-User-Name"

	ctxRequestID = "request_id"
	ctxUser      = "user"
)

// RequestID reuses the caller's X-Request-Id or assigns a new one and
// echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerRequestID))
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ctxRequestID, id)
		c.Writer.Header().Set(headerRequestID, id)
		c.Next()
	}
}

// RequestLogger logs one line per request, at a level matching the status.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(ctxRequestID),
		}
		if u, ok := c.Get(ctxUser); ok {
			fields = append(fields, "user_id", u.(*learn.User).ID)
		}

		switch {
		case status >= 500:
			log.Error("http request", fields...)
		case status >= 400:
			log.Warn("http request", fields...)
		default:
			log.Info("http request", fields...)
		}
	}
}

// requireUser resolves the caller from the X-User-Email header set by the
// authenticating proxy, creating the user on first sight.
func (s *server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.GetHeader(headerUserEmail))
		if email == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "missing "+headerUserEmail+" header")
			return
		}
		u, err := s.store.UserRepo().EnsureUser(c.Request.Context(), email, strings.TrimSpace(c.GetHeader(headerUserName)))
		if err != nil {
			s.fail(c, err)
			c.Abort()
			return
		}
		c.Set(ctxUser, u)
		c.Next()
	}
}

func currentUser(c *gin.Context) *learn.User {
	return c.MustGet(ctxUser).(*learn.User)
}
