package store

import (
	"context"
	"fmt"

	"github.com/stagedesk/boxoffice/internal/model"
)

// EnsureTheater returns the theater with the given name, creating it on
// first start. Concurrent startups race on the insert; the loser falls back
// to the select.
func (s *Store) EnsureTheater(ctx context.Context, name string) (*model.Theater, error) {
	t := &model.Theater{Name: name}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO theaters (name)
		VALUES ($1)
		RETURNING id, created_at
	`, name).Scan(&t.ID, &t.CreatedAt)
	if err == nil {
		return t, nil
	}
	if !isUniqueViolation(err) {
		return nil, fmt.Errorf("insert theater: %w", err)
	}

	return s.TheaterByName(ctx, name)
}

// TheaterByName looks up a theater by its unique name.
func (s *Store) TheaterByName(ctx context.Context, name string) (*model.Theater, error) {
	t := &model.Theater{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, address, email, phone, created_at
		FROM theaters
		WHERE name = $1
	`, name).Scan(&t.ID, &t.Name, &t.Address, &t.Email, &t.Phone, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("select theater: %w", err)
	}
	return t, nil
}
