package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/biilim/biilim/internal/learn"
)

// ChatRepo stores topic-scoped conversation turns.
type ChatRepo struct {
	q dialect.ExecQuerier
}

// Append stores a chat turn and fills in its id and timestamp.
func (r *ChatRepo) Append(ctx context.Context, m *learn.ChatMessage) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	id, err := insert(ctx, r.q, builder.Insert(tableChat).
		Columns("user_id", "topic_id", "sender", "chat_type", "text", "created_at").
		Values(m.UserID, m.TopicID, string(m.Sender), string(m.Type), m.Text, m.CreatedAt.UTC()))
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	m.ID = id
	return nil
}

// History returns the user's conversation about a topic ordered by
// (created_at, id).
func (r *ChatRepo) History(ctx context.Context, userID, topicID int64) ([]learn.ChatMessage, error) {
	sel := builder.Select("id", "user_id", "topic_id", "sender", "chat_type", "text", "created_at").
		From(entsql.Table(tableChat)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("topic_id", topicID),
		)).
		OrderBy("created_at", "id")

	var out []learn.ChatMessage
	err := scanRows(ctx, r.q, sel, func(rows *entsql.Rows) error {
		var (
			m              learn.ChatMessage
			sender, chType string
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.TopicID, &sender, &chType, &m.Text, &m.CreatedAt); err != nil {
			return err
		}
		m.Sender = learn.Sender(sender)
		m.Type = learn.ChatType(chType)
		out = append(out, m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query chat history: %w", err)
	}
	return out, nil
}
