package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stagedesk/boxoffice/internal/model"
)

// CreateProduction inserts a production and fills in its generated fields.
func (s *Store) CreateProduction(ctx context.Context, p *model.Production) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO productions (theater_id, title, description, director, start_date, end_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, p.TheaterID, p.Title, p.Description, p.Director, p.StartDate, p.EndDate, p.CreatedBy).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert production: %w", err)
	}
	return nil
}

// ProductionByID returns one production, or model.ErrNotFound.
func (s *Store) ProductionByID(ctx context.Context, id int64) (*model.Production, error) {
	p := &model.Production{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, theater_id, title, description, director, start_date, end_date, created_by, created_at
		FROM productions
		WHERE id = $1
	`, id).Scan(&p.ID, &p.TheaterID, &p.Title, &p.Description, &p.Director,
		&p.StartDate, &p.EndDate, &p.CreatedBy, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select production: %w", err)
	}
	return p, nil
}

// ListProductions returns a theater's productions, newest first.
func (s *Store) ListProductions(ctx context.Context, theaterID int64) ([]model.Production, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, theater_id, title, description, director, start_date, end_date, created_by, created_at
		FROM productions
		WHERE theater_id = $1
		ORDER BY start_date DESC, id DESC
	`, theaterID)
	if err != nil {
		return nil, fmt.Errorf("list productions: %w", err)
	}
	defer rows.Close()

	var out []model.Production
	for rows.Next() {
		var p model.Production
		if err := rows.Scan(&p.ID, &p.TheaterID, &p.Title, &p.Description, &p.Director,
			&p.StartDate, &p.EndDate, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan production: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
