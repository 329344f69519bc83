package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/biilim/biilim/internal/chat"
	"github.com/biilim/biilim/internal/learn"
)

// GET /api/topics/:id/chat
// Opens the conversation with a welcome message the first time.
func (s *server) chatHistory(c *gin.Context) {
	topicID, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	u := currentUser(c)
	if _, err := s.chat.Welcome(ctx, u.ID, topicID); err != nil {
		s.fail(c, err)
		return
	}
	msgs, err := s.chat.History(ctx, u.ID, topicID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": newMessageViews(msgs)})
}

type chatRequest struct {
	ChatType    string `json:"chat_type" form:"chat_type"`
	UserMessage string `json:"user_message" form:"user_message"`
}

// POST /api/topics/:id/chat
func (s *server) postChat(c *gin.Context) {
	topicID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req chatRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	t, err := learn.ParseChatType(req.ChatType)
	if err != nil {
		badRequest(c, chat.ErrChatType.Error())
		return
	}
	reply, err := s.chat.PostUserMessage(c.Request.Context(), currentUser(c).ID, topicID, req.UserMessage, t)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
