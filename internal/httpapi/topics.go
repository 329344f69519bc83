package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/biilim/biilim/internal/learn"
	"github.com/biilim/biilim/internal/store"
)

// GET /api/topics
func (s *server) listTopics(c *gin.Context) {
	topics, err := s.store.TopicRepo().List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": newTopicList(topics)})
}

// GET /api/topics/recommended?limit=
func (s *server) recommendedTopics(c *gin.Context) {
	limit := store.DefaultRecommendedLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "invalid limit")
			return
		}
		limit = n
	}
	topics, err := s.store.TopicRepo().Recommended(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": newTopicList(topics)})
}

// GET /api/topics/search?query=
// Returns the existing topic for the query or generates a new one (201).
func (s *server) searchTopics(c *gin.Context) {
	ctx := c.Request.Context()
	u := currentUser(c)
	profile, err := s.store.ProfileRepo().Get(ctx, u.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	topic, created, err := s.topics.Search(ctx, &u.ID, profile, c.Query("query"))
	if err != nil {
		s.fail(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"topic": newTopicView(topic), "created": created})
}

// GET /api/topics/:id
func (s *server) getTopic(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	repo := s.store.TopicRepo()
	topic, err := repo.Get(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}

	v := newTopicView(topic)
	if q, err := repo.QuizForTopic(ctx, id); err == nil {
		v.QuizID = q.ID
	} else if !errors.Is(err, learn.ErrNotFound) {
		s.fail(c, err)
		return
	}
	for i := range v.Sections {
		q, err := repo.QuizForSection(ctx, v.Sections[i].ID)
		if errors.Is(err, learn.ErrNotFound) {
			continue
		}
		if err != nil {
			s.fail(c, err)
			return
		}
		v.Sections[i].QuizID = q.ID
	}
	c.JSON(http.StatusOK, gin.H{"topic": v})
}

// DELETE /api/topics/:id
// Only the owner may delete a topic; unowned topics can be deleted by
// anyone.
func (s *server) deleteTopic(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	topic, err := s.store.TopicRepo().Get(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if topic.OwnerID != nil && *topic.OwnerID != currentUser(c).ID {
		abort(c, http.StatusForbidden, "forbidden", "only the topic owner can delete it")
		return
	}
	if err := s.store.TopicRepo().Delete(ctx, id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
