package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stagedesk/boxoffice/internal/model"
)

// CreatePerformance inserts a performance and fills in its generated fields.
func (s *Store) CreatePerformance(ctx context.Context, p *model.Performance) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO performances (production_id, starts_at, venue, capacity, tickets_sold, revenue, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, p.ProductionID, p.StartsAt, p.Venue, p.Capacity, p.TicketsSold, p.Revenue, p.Notes).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert performance: %w", err)
	}
	return nil
}

// PerformanceByStart resolves a performance by its exact start timestamp
// within a production. When several performances share a start, the oldest
// wins. Returns model.ErrNotFound on a miss.
func (s *Store) PerformanceByStart(ctx context.Context, productionID int64, startsAt time.Time) (*model.Performance, error) {
	p := &model.Performance{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, production_id, starts_at, venue, capacity, tickets_sold, revenue, notes, created_at
		FROM performances
		WHERE production_id = $1 AND starts_at = $2
		ORDER BY id
		LIMIT 1
	`, productionID, startsAt).Scan(&p.ID, &p.ProductionID, &p.StartsAt, &p.Venue,
		&p.Capacity, &p.TicketsSold, &p.Revenue, &p.Notes, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select performance: %w", err)
	}
	return p, nil
}

// PerformanceByID returns one performance, or model.ErrNotFound.
func (s *Store) PerformanceByID(ctx context.Context, id int64) (*model.Performance, error) {
	p := &model.Performance{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, production_id, starts_at, venue, capacity, tickets_sold, revenue, notes, created_at
		FROM performances
		WHERE id = $1
	`, id).Scan(&p.ID, &p.ProductionID, &p.StartsAt, &p.Venue,
		&p.Capacity, &p.TicketsSold, &p.Revenue, &p.Notes, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select performance: %w", err)
	}
	return p, nil
}

// ListPerformances returns a production's performances in date order.
func (s *Store) ListPerformances(ctx context.Context, productionID int64) ([]model.Performance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, production_id, starts_at, venue, capacity, tickets_sold, revenue, notes, created_at
		FROM performances
		WHERE production_id = $1
		ORDER BY starts_at
	`, productionID)
	if err != nil {
		return nil, fmt.Errorf("list performances: %w", err)
	}
	defer rows.Close()

	var out []model.Performance
	for rows.Next() {
		var p model.Performance
		if err := rows.Scan(&p.ID, &p.ProductionID, &p.StartsAt, &p.Venue,
			&p.Capacity, &p.TicketsSold, &p.Revenue, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan performance: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ApplyTicketTotals bumps a performance's running totals in one atomic
// update. Concurrent imports against the same performance serialize on the
// row, so increments are never lost.
func (s *Store) ApplyTicketTotals(ctx context.Context, performanceID int64, quantity int, amount decimal.Decimal) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE performances
		SET tickets_sold = tickets_sold + $2,
		    revenue = revenue + $3
		WHERE id = $1
	`, performanceID, quantity, amount)
	if err != nil {
		return fmt.Errorf("update performance totals: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update performance totals: %w", err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}
