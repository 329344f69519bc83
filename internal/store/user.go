package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"

	"github.com/biilim/biilim/internal/learn"
)

// UserRepo reads and creates users. Authentication happens elsewhere;
// users are identified by email.
type UserRepo struct {
	q dialect.ExecQuerier
}

var userColumns = []string{"id", "email", "name", "created_at"}

func scanUser(rows *entsql.Rows) (learn.User, error) {
	var u learn.User
	err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	return u, err
}

// EnsureUser returns the user with the given email, creating it first if
// needed. A concurrent creation of the same email is resolved by reading
// the winner's row.
func (r *UserRepo) EnsureUser(ctx context.Context, email, name string) (*learn.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email is required")
	}
	if u, err := r.GetByEmail(ctx, email); err == nil {
		return u, nil
	} else if !errors.Is(err, learn.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	id, err := insert(ctx, r.q, builder.Insert(tableUsers).
		Columns("email", "name", "created_at").
		Values(email, name, now))
	if sqlgraph.IsUniqueConstraintError(err) {
		return r.GetByEmail(ctx, email)
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &learn.User{ID: id, Email: email, Name: name, CreatedAt: now}, nil
}

// Get returns the user with the given id.
func (r *UserRepo) Get(ctx context.Context, id int64) (*learn.User, error) {
	return r.one(ctx, entsql.EQ("id", id))
}

// GetByEmail returns the user with the given email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*learn.User, error) {
	return r.one(ctx, entsql.EQ("email", strings.ToLower(strings.TrimSpace(email))))
}

// First returns the earliest created user, or ErrNotFound when there are
// none.
func (r *UserRepo) First(ctx context.Context) (*learn.User, error) {
	return r.one(ctx, nil)
}

func (r *UserRepo) one(ctx context.Context, p *entsql.Predicate) (*learn.User, error) {
	sel := builder.Select(userColumns...).From(entsql.Table(tableUsers)).OrderBy("id").Limit(1)
	if p != nil {
		sel.Where(p)
	}
	var found *learn.User
	err := scanRows(ctx, r.q, sel, func(rows *entsql.Rows) error {
		u, err := scanUser(rows)
		found = &u
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	if found == nil {
		return nil, learn.ErrNotFound
	}
	return found, nil
}
