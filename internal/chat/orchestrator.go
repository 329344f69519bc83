// Package chat runs topic-scoped tutoring conversations.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/biilim/biilim/internal/learn"
	"github.com/biilim/biilim/internal/llm"
	"github.com/biilim/biilim/internal/logger"
	"github.com/biilim/biilim/internal/prompt"
	"github.com/biilim/biilim/internal/store"
	"github.com/biilim/biilim/internal/topicgen"
)

// FallbackReply is stored and returned as the AI turn when the generation
// service fails or answers with something unusable.
const FallbackReply = "Sorry, I couldn't come up with a reply just now. Please try again in a moment."

var (
	// ErrEmptyMessage is returned for a blank user message.
	ErrEmptyMessage = errors.New("message must not be blank")
	// ErrChatType is returned when a user turn carries a tutor-only type.
	ErrChatType = errors.New("chat_type must be general_chat or explanation")
)

// Config holds generation settings for chat replies.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns defaults for conversational replies.
func DefaultConfig() Config {
	return Config{MaxTokens: 1024, Temperature: 0.7}
}

// Orchestrator persists both sides of a conversation and asks the model
// for the tutor's side.
type Orchestrator struct {
	store    *store.Store
	provider llm.Provider
	cfg      Config
	log      *logger.Logger
}

// New creates an Orchestrator.
func New(s *store.Store, provider llm.Provider, cfg Config, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{store: s, provider: provider, cfg: cfg, log: log.With("component", "chat")}
}

// PostUserMessage records the user's turn, generates the reply, records it
// and returns its text. The user turn is committed before generation so it
// survives a failed call. Generation failures yield FallbackReply; only
// persistence failures are returned as errors.
func (o *Orchestrator) PostUserMessage(ctx context.Context, userID, topicID int64, text string, t learn.ChatType) (string, error) {
	if !t.UserAuthored() {
		return "", ErrChatType
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyMessage
	}

	topic, err := o.store.TopicRepo().Get(ctx, topicID)
	if err != nil {
		return "", fmt.Errorf("load topic %d: %w", topicID, err)
	}
	history, err := o.store.ChatRepo().History(ctx, userID, topicID)
	if err != nil {
		return "", err
	}

	explanation := t == learn.ChatExplanationSubmission
	userType, aiType := learn.ChatGeneral, learn.ChatGeneral
	if explanation {
		userType, aiType = learn.ChatExplanationSubmission, learn.ChatEvaluationFeedback
	}

	if err := o.store.ChatRepo().Append(ctx, &learn.ChatMessage{
		UserID:  userID,
		TopicID: topicID,
		Sender:  learn.SenderUser,
		Type:    userType,
		Text:    text,
	}); err != nil {
		return "", fmt.Errorf("save user message: %w", err)
	}

	var reply string
	if explanation {
		reply, err = o.evaluate(ctx, topic, text)
	} else {
		reply, err = o.converse(ctx, userID, topic, history, text)
	}
	if err != nil {
		o.log.Error("chat generation failed, using fallback",
			"user_id", userID, "topic_id", topicID, "chat_type", aiType, "error", err)
		reply = FallbackReply
	}

	if err := o.store.ChatRepo().Append(ctx, &learn.ChatMessage{
		UserID:  userID,
		TopicID: topicID,
		Sender:  learn.SenderAI,
		Type:    aiType,
		Text:    reply,
	}); err != nil {
		return "", fmt.Errorf("save reply: %w", err)
	}
	return reply, nil
}

func (o *Orchestrator) evaluate(ctx context.Context, topic *learn.Topic, explanation string) (string, error) {
	req := llm.UserPrompt(prompt.SystemTutor,
		prompt.ExplanationEvaluation(prompt.EvaluationFromTopic(*topic), explanation))
	req.Schema = topicgen.FeedbackSchema
	req.MaxTokens = o.cfg.MaxTokens
	req.Temperature = o.cfg.Temperature

	resp, err := o.provider.Generate(llm.WithPurpose(ctx, llm.PurposeExplanation), req)
	if err != nil {
		return "", err
	}
	fb, err := topicgen.ValidateFeedback(resp.Content)
	if err != nil {
		return "", err
	}
	return fb.Text(), nil
}

func (o *Orchestrator) converse(ctx context.Context, userID int64, topic *learn.Topic, history []learn.ChatMessage, message string) (string, error) {
	profile, err := o.store.ProfileRepo().Get(ctx, userID)
	if err != nil {
		return "", err
	}
	req := llm.UserPrompt(prompt.SystemTutor,
		prompt.Chat(prompt.ChatFromTopic(*topic, profile), prompt.TurnsFromMessages(history), message))
	req.MaxTokens = o.cfg.MaxTokens
	req.Temperature = o.cfg.Temperature

	resp, err := o.provider.Generate(llm.WithPurpose(ctx, llm.PurposeChat), req)
	if err != nil {
		return "", err
	}
	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return "", errors.New("empty reply")
	}
	return reply, nil
}

// History returns the conversation oldest first.
func (o *Orchestrator) History(ctx context.Context, userID, topicID int64) ([]learn.ChatMessage, error) {
	return o.store.ChatRepo().History(ctx, userID, topicID)
}

// Welcome stores a greeting for a conversation that has no messages yet
// and returns it. For an existing conversation it returns nil. No model
// call is made.
func (o *Orchestrator) Welcome(ctx context.Context, userID, topicID int64) (*learn.ChatMessage, error) {
	topic, err := o.store.TopicRepo().Get(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("load topic %d: %w", topicID, err)
	}
	history, err := o.store.ChatRepo().History(ctx, userID, topicID)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		return nil, nil
	}

	msg := &learn.ChatMessage{
		UserID:  userID,
		TopicID: topicID,
		Sender:  learn.SenderAI,
		Type:    learn.ChatWelcome,
		Text:    WelcomeText(topic),
	}
	if err := o.store.ChatRepo().Append(ctx, msg); err != nil {
		return nil, fmt.Errorf("save welcome: %w", err)
	}
	return msg, nil
}

// WelcomeText is the greeting for a topic.
func WelcomeText(t *learn.Topic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Welcome to %s!", t.Title)
	if d := strings.TrimSpace(t.Description); d != "" {
		b.WriteString(" ")
		b.WriteString(d)
	}
	if len(t.Sections) > 0 {
		titles := make([]string, len(t.Sections))
		for i, s := range t.Sections {
			titles[i] = s.Title
		}
		fmt.Fprintf(&b, "\n\nWe'll cover: %s.", strings.Join(titles, ", "))
	}
	b.WriteString("\n\nAsk me anything about it, or explain the topic in your own words to get feedback.")
	return b.String()
}
