package learn

import (
	"fmt"
	"time"
)

// Sender identifies who wrote a chat turn.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// ChatType classifies a chat turn.
type ChatType string

const (
	ChatGeneral               ChatType = "general_chat"
	ChatExplanationSubmission ChatType = "explanation_submission"
	ChatEvaluationFeedback    ChatType = "evaluation_feedback"
	ChatWelcome               ChatType = "welcome_message"
)

// ParseChatType maps a request value onto a ChatType a user may send.
// "explanation" is accepted as shorthand for an explanation submission;
// blank means general chat. AI-only types are rejected.
func ParseChatType(s string) (ChatType, error) {
	switch s {
	case "", string(ChatGeneral), "general":
		return ChatGeneral, nil
	case "explanation", string(ChatExplanationSubmission):
		return ChatExplanationSubmission, nil
	case string(ChatEvaluationFeedback), string(ChatWelcome):
		return "", fmt.Errorf("chat type %q is written by the tutor only", s)
	}
	return "", fmt.Errorf("unknown chat type %q", s)
}

// UserAuthored reports whether a user may send a turn of this type.
func (t ChatType) UserAuthored() bool {
	return t == ChatGeneral || t == ChatExplanationSubmission
}

// ChatMessage is one turn of a topic-scoped conversation.
type ChatMessage struct {
	ID        int64
	UserID    int64
	TopicID   int64
	Sender    Sender
	Type      ChatType
	Text      string
	CreatedAt time.Time
}
