// Package httpapi exposes topics, quizzes, chat and profiles over HTTP.
package httpapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/biilim/biilim/internal/chat"
	"github.com/biilim/biilim/internal/grading"
	"github.com/biilim/biilim/internal/logger"
	"github.com/biilim/biilim/internal/store"
	"github.com/biilim/biilim/internal/topicgen"
)

// Deps are the services the handlers call.
type Deps struct {
	Store  *store.Store
	Topics *topicgen.Service
	Grader *grading.Grader
	Chat   *chat.Orchestrator
	Log    *logger.Logger

	// CORSOrigins lists allowed browser origins. Empty disables CORS.
	CORSOrigins []string
}

type server struct {
	store  *store.Store
	topics *topicgen.Service
	grader *grading.Grader
	chat   *chat.Orchestrator
	log    *logger.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	s := &server{
		store:  d.Store,
		topics: d.Topics,
		grader: d.Grader,
		chat:   d.Chat,
		log:    log.With("component", "httpapi"),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(s.log))
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  d.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Content-Type", headerUserEmail, headerUserName, headerRequestID},
			ExposeHeaders: []string{headerRequestID},
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := r.Group("/api")
	api.Use(s.requireUser())
	{
		api.GET("/topics", s.listTopics)
		api.GET("/topics/recommended", s.recommendedTopics)
		api.GET("/topics/search", s.searchTopics)
		api.GET("/topics/:id", s.getTopic)
		api.DELETE("/topics/:id", s.deleteTopic)
		api.GET("/topics/:id/chat", s.chatHistory)
		api.POST("/topics/:id/chat", s.postChat)

		api.GET("/quizzes/:id", s.getQuiz)
		api.GET("/quizzes/:id/answers", s.quizAnswers)
		api.POST("/quizzes/submit", s.submitQuiz)

		api.GET("/me/profile", s.getProfile)
		api.PUT("/me/profile", s.putProfile)
	}
	return r
}
