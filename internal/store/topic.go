package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/biilim/biilim/internal/learn"
)

// DefaultRecommendedLimit is the number of topics shown as recommended
// when the caller does not ask for a specific count.
const DefaultRecommendedLimit = 6

// TopicRepo reads and deletes topics. Topics are created through Tx by the
// ingestion pipeline.
type TopicRepo struct {
	q dialect.ExecQuerier
}

var topicColumns = []string{
	"id", "title", "description", "duration", "is_recommended",
	"supplementary_prompts", "owner_id", "created_at", "updated_at",
}

func scanTopic(rows *entsql.Rows) (learn.Topic, error) {
	var (
		t       learn.Topic
		prompts string
		owner   sql.NullInt64
	)
	if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Duration, &t.IsRecommended,
		&prompts, &owner, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return t, err
	}
	if prompts != "" {
		if err := json.Unmarshal([]byte(prompts), &t.SupplementaryPrompts); err != nil {
			return t, fmt.Errorf("decode supplementary prompts of topic %d: %w", t.ID, err)
		}
	}
	t.OwnerID = int64Ptr(owner)
	return t, nil
}

func (r *TopicRepo) list(ctx context.Context, sel *entsql.Selector) ([]learn.Topic, error) {
	var out []learn.Topic
	err := scanRows(ctx, r.q, sel, func(rows *entsql.Rows) error {
		t, err := scanTopic(rows)
		if err != nil {
			return err
		}
		out = append(out, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	return out, nil
}

// List returns every topic, newest first. Sections are not loaded.
func (r *TopicRepo) List(ctx context.Context) ([]learn.Topic, error) {
	return r.list(ctx, builder.Select(topicColumns...).
		From(entsql.Table(tableTopics)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id")))
}

// Recommended returns up to limit recommended topics, newest first.
func (r *TopicRepo) Recommended(ctx context.Context, limit int) ([]learn.Topic, error) {
	if limit <= 0 {
		limit = DefaultRecommendedLimit
	}
	return r.list(ctx, builder.Select(topicColumns...).
		From(entsql.Table(tableTopics)).
		Where(entsql.EQ("is_recommended", true)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id")).
		Limit(limit))
}

// Get returns a topic with its sections ordered by index.
func (r *TopicRepo) Get(ctx context.Context, id int64) (*learn.Topic, error) {
	topics, err := r.list(ctx, builder.Select(topicColumns...).
		From(entsql.Table(tableTopics)).
		Where(entsql.EQ("id", id)))
	if err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return nil, learn.ErrNotFound
	}
	t := topics[0]
	if t.Sections, err = r.Sections(ctx, id); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByTitle returns the topic whose title matches case-insensitively.
func (r *TopicRepo) GetByTitle(ctx context.Context, title string) (*learn.Topic, error) {
	id, ok, err := topicIDByTitle(ctx, r.q, title)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, learn.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Sections returns the topic's sections ordered by index.
func (r *TopicRepo) Sections(ctx context.Context, topicID int64) ([]learn.Section, error) {
	var out []learn.Section
	sel := builder.Select("id", "topic_id", "title", "content", "position").
		From(entsql.Table(tableSections)).
		Where(entsql.EQ("topic_id", topicID)).
		OrderBy("position", "id")
	err := scanRows(ctx, r.q, sel, func(rows *entsql.Rows) error {
		var s learn.Section
		if err := rows.Scan(&s.ID, &s.TopicID, &s.Title, &s.Content, &s.Index); err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	return out, nil
}

// QuizForTopic returns the topic-level quiz with its questions.
func (r *TopicRepo) QuizForTopic(ctx context.Context, topicID int64) (*learn.Quiz, error) {
	return loadQuiz(ctx, r.q, entsql.EQ("topic_id", topicID))
}

// QuizForSection returns the section's quiz with its questions.
func (r *TopicRepo) QuizForSection(ctx context.Context, sectionID int64) (*learn.Quiz, error) {
	return loadQuiz(ctx, r.q, entsql.EQ("section_id", sectionID))
}

// Delete removes a topic. Sections, quizzes, questions, choices, answers
// and chat messages go with it.
func (r *TopicRepo) Delete(ctx context.Context, id int64) error {
	n, err := exec(ctx, r.q, builder.Delete(tableTopics).Where(entsql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	if n == 0 {
		return learn.ErrNotFound
	}
	return nil
}

// DeleteAll removes every topic and returns how many were deleted.
func (r *TopicRepo) DeleteAll(ctx context.Context) (int64, error) {
	n, err := exec(ctx, r.q, builder.Delete(tableTopics))
	if err != nil {
		return 0, fmt.Errorf("delete topics: %w", err)
	}
	return n, nil
}
