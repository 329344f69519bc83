package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/biilim/biilim/internal/learn"
)

// GET /api/me/profile
func (s *server) getProfile(c *gin.Context) {
	p, err := s.store.ProfileRepo().Get(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": newProfileView(p)})
}

// PUT /api/me/profile
// Replaces the whole profile.
func (s *server) putProfile(c *gin.Context) {
	var req profileView
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.Age != nil && (*req.Age < 0 || *req.Age > 150) {
		badRequest(c, "age out of range")
		return
	}
	styles, err := learn.ParseLearningStyles(strings.Join(req.LearningStyles, ","))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	p := learn.Profile{
		UserID:             currentUser(c).ID,
		Age:                req.Age,
		City:               strings.TrimSpace(req.City),
		Country:            strings.TrimSpace(req.Country),
		CulturalBackground: strings.TrimSpace(req.CulturalBackground),
		Hobbies:            strings.Join(req.Hobbies, ","),
		LearningStyles:     styles,
	}
	if err := s.store.ProfileRepo().Upsert(c.Request.Context(), p); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": newProfileView(p)})
}
