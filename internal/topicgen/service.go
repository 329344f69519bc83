package topicgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/biilim/biilim/internal/learn"
	"github.com/biilim/biilim/internal/llm"
	"github.com/biilim/biilim/internal/logger"
	"github.com/biilim/biilim/internal/prompt"
)

// Ingester persists a validated topic graph atomically.
type Ingester interface {
	Ingest(ctx context.Context, ownerID *int64, t *learn.GeneratedTopic) (*learn.Topic, error)
}

// TopicFinder looks up an existing topic by title.
type TopicFinder interface {
	GetByTitle(ctx context.Context, title string) (*learn.Topic, error)
}

// Service drives query -> prompt -> generation -> validation -> ingestion.
type Service struct {
	provider llm.Provider
	ingester Ingester
	topics   TopicFinder
	cfg      Config
	log      *logger.Logger
}

// NewService creates a topic generation service.
func NewService(provider llm.Provider, ingester Ingester, topics TopicFinder, cfg Config, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{provider: provider, ingester: ingester, topics: topics, cfg: cfg, log: log.With("component", "topicgen")}
}

// Search returns the topic whose title matches query, ignoring case, or
// generates one. created reports whether generation ran.
func (s *Service) Search(ctx context.Context, ownerID *int64, p learn.Profile, query string) (topic *learn.Topic, created bool, err error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false, &ValidationError{Field: "query", Message: "must not be blank"}
	}

	existing, err := s.topics.GetByTitle(ctx, query)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, learn.ErrNotFound):
		return nil, false, fmt.Errorf("look up topic: %w", err)
	}

	topic, err = s.Generate(ctx, ownerID, p, query)
	if err != nil {
		return nil, false, err
	}
	return topic, true, nil
}

// Generate asks the model for a topic on query and ingests it. Errors are
// *ServiceError when the model could not be reached, *ValidationError for
// unusable output and *learn.ConflictError when the title is taken.
func (s *Service) Generate(ctx context.Context, ownerID *int64, p learn.Profile, query string) (*learn.Topic, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeTopicGeneration)

	req := llm.UserPrompt(prompt.SystemTutor, prompt.TopicGeneration(p, query))
	req.Schema = TopicSchema
	req.MaxTokens = s.cfg.MaxTokens
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		s.log.Warn("topic generation failed", "query", query, "error", err)
		var (
			maxTok  *llm.ErrMaxTokensExceeded
			refused *llm.ErrRefused
		)
		switch {
		case errors.As(err, &maxTok):
			return nil, &ValidationError{Message: "response was truncated", Err: err}
		case errors.As(err, &refused):
			return nil, &ValidationError{Field: "query", Message: "the model declined this request; try rephrasing it", Err: err}
		}
		return nil, &ServiceError{Op: "generate topic", Err: err}
	}

	gen, err := ValidateTopic(resp.Content)
	if err != nil {
		s.log.Warn("generated topic rejected", "query", query, "error", err)
		return nil, err
	}

	topic, err := s.ingester.Ingest(ctx, ownerID, gen)
	if err != nil {
		return nil, err
	}

	s.log.Info("topic generated",
		"topic_id", topic.ID, "title", topic.Title,
		"sections", len(gen.Sections), "questions", gen.CountQuestions())
	return topic, nil
}
