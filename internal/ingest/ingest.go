// Package ingest persists a validated topic graph in a single transaction.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/biilim/biilim/internal/learn"
	"github.com/biilim/biilim/internal/logger"
	"github.com/biilim/biilim/internal/store"
)

// GraphWriter is the write side of a store transaction.
type GraphWriter interface {
	TopicIDByTitle(ctx context.Context, title string) (int64, bool, error)
	InsertTopic(ctx context.Context, t learn.Topic) (int64, error)
	InsertSection(ctx context.Context, s learn.Section) (int64, error)
	InsertQuiz(ctx context.Context, q learn.Quiz) (int64, error)
	InsertQuestion(ctx context.Context, q learn.Question) (int64, error)
	InsertChoice(ctx context.Context, c learn.Choice) (int64, error)
}

var _ GraphWriter = (*store.Tx)(nil)

// Option configures an Ingester.
type Option func(*Ingester)

// WithWriter decorates the transaction writer. Tests use it to inject
// failures part way through a graph.
func WithWriter(wrap func(GraphWriter) GraphWriter) Option {
	return func(i *Ingester) { i.wrap = wrap }
}

// Ingester writes generated topics.
type Ingester struct {
	store *store.Store
	log   *logger.Logger
	wrap  func(GraphWriter) GraphWriter
}

// New creates an Ingester backed by s.
func New(s *store.Store, log *logger.Logger, opts ...Option) *Ingester {
	if log == nil {
		log = logger.Nop()
	}
	i := &Ingester{store: s, log: log.With("component", "ingest")}
	for _, o := range opts {
		o(i)
	}
	return i
}

// Ingest writes the topic, its graded topic quiz, and every section with
// its ungraded quiz in one transaction. Either the whole graph is written
// or nothing is. Section and question indexes follow array position.
func (i *Ingester) Ingest(ctx context.Context, ownerID *int64, t *learn.GeneratedTopic) (*learn.Topic, error) {
	if t == nil {
		return nil, errors.New("ingest: nil topic")
	}
	title := strings.TrimSpace(t.Title)
	if err := t.CheckIntegrity(); err != nil {
		return nil, err
	}

	var topicID int64
	err := i.store.InTx(ctx, func(tx *store.Tx) error {
		var w GraphWriter = tx
		if i.wrap != nil {
			w = i.wrap(w)
		}
		id, err := writeGraph(ctx, w, ownerID, title, t)
		topicID = id
		return err
	})
	if err != nil {
		var conflict *learn.ConflictError
		if store.IsUniqueViolation(err) && !errors.As(err, &conflict) {
			err = i.conflict(ctx, title)
		}
		i.log.Warn("ingest rolled back", "title", title, "error", err)
		return nil, err
	}

	topic, err := i.store.TopicRepo().Get(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("reload topic %d: %w", topicID, err)
	}
	i.log.Info("topic ingested", "topic_id", topicID, "title", title, "sections", len(t.Sections))
	return topic, nil
}

// conflict resolves the id of the topic that won a concurrent insert.
func (i *Ingester) conflict(ctx context.Context, title string) error {
	existing, err := i.store.TopicRepo().GetByTitle(ctx, title)
	if err != nil {
		return &learn.ConflictError{Title: title}
	}
	return &learn.ConflictError{Title: title, ExistingID: existing.ID}
}

func writeGraph(ctx context.Context, w GraphWriter, ownerID *int64, title string, t *learn.GeneratedTopic) (int64, error) {
	if existing, ok, err := w.TopicIDByTitle(ctx, title); err != nil {
		return 0, err
	} else if ok {
		return 0, &learn.ConflictError{Title: title, ExistingID: existing}
	}

	topicID, err := w.InsertTopic(ctx, learn.Topic{
		Title:                title,
		Description:          t.Description,
		Duration:             t.Duration,
		IsRecommended:        t.IsRecommended,
		SupplementaryPrompts: t.SupplementaryPrompts,
		OwnerID:              ownerID,
	})
	if err != nil {
		return 0, err
	}

	topicQuiz, err := learn.NewQuiz(learn.TopicOwner{TopicID: topicID}, true)
	if err != nil {
		return 0, err
	}
	if err := writeQuiz(ctx, w, topicQuiz, t.Quiz); err != nil {
		return 0, fmt.Errorf("topic quiz: %w", err)
	}

	for idx, s := range t.Sections {
		sectionID, err := w.InsertSection(ctx, learn.Section{
			TopicID: topicID,
			Title:   s.Title,
			Content: s.Content,
			Index:   idx,
		})
		if err != nil {
			return 0, fmt.Errorf("section %d: %w", idx, err)
		}
		quiz, err := learn.NewQuiz(learn.SectionOwner{SectionID: sectionID}, false)
		if err != nil {
			return 0, err
		}
		if err := writeQuiz(ctx, w, quiz, s.Quiz); err != nil {
			return 0, fmt.Errorf("section %d quiz: %w", idx, err)
		}
	}
	return topicID, nil
}

func writeQuiz(ctx context.Context, w GraphWriter, quiz learn.Quiz, gen learn.GeneratedQuiz) error {
	quizID, err := w.InsertQuiz(ctx, quiz)
	if err != nil {
		return err
	}
	for idx, q := range gen.Questions {
		questionID, err := w.InsertQuestion(ctx, learn.Question{
			QuizID:              quizID,
			Text:                q.QuestionText,
			CorrectAnswerLetter: q.CorrectAnswerLetter,
			Index:               idx,
		})
		if err != nil {
			return fmt.Errorf("question %d: %w", idx, err)
		}
		for _, c := range q.Choices {
			if _, err := w.InsertChoice(ctx, learn.Choice{QuestionID: questionID, Letter: c.Letter, Text: c.Text}); err != nil {
				return fmt.Errorf("question %d choice %s: %w", idx, c.Letter, err)
			}
		}
	}
	return nil
}
