package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/biilim/biilim/internal/learn"
)

// ProfileRepo stores per-user personalization attributes.
type ProfileRepo struct {
	q dialect.ExecQuerier
}

// Get returns the user's profile. A user without a stored profile gets an
// empty one.
func (r *ProfileRepo) Get(ctx context.Context, userID int64) (learn.Profile, error) {
	p := learn.Profile{UserID: userID}
	sel := builder.Select("age", "city", "country", "cultural_background", "hobbies", "learning_styles").
		From(entsql.Table(tableProfiles)).
		Where(entsql.EQ("user_id", userID))
	err := scanRows(ctx, r.q, sel, func(rows *entsql.Rows) error {
		var age sql.NullInt64
		if err := rows.Scan(&age, &p.City, &p.Country, &p.CulturalBackground, &p.Hobbies, &p.LearningStyles); err != nil {
			return err
		}
		if age.Valid {
			a := int(age.Int64)
			p.Age = &a
		}
		return nil
	})
	if err != nil {
		return learn.Profile{}, fmt.Errorf("query profile: %w", err)
	}
	return p, nil
}

// Upsert creates or replaces the user's profile.
func (r *ProfileRepo) Upsert(ctx context.Context, p learn.Profile) error {
	var age sql.NullInt64
	if p.Age != nil {
		age = sql.NullInt64{Int64: int64(*p.Age), Valid: true}
	}
	ins := builder.Insert(tableProfiles).
		Columns("user_id", "age", "city", "country", "cultural_background", "hobbies", "learning_styles").
		Values(p.UserID, age, p.City, p.Country, p.CulturalBackground, p.Hobbies, p.LearningStyles).
		OnConflict(
			entsql.ConflictColumns("user_id"),
			entsql.ResolveWithNewValues(),
		)
	if _, err := insert(ctx, r.q, ins); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
