package store

import (
	"context"
	"fmt"

	"github.com/stagedesk/boxoffice/internal/model"
)

// CreateTicketSale inserts one ticket sale. Sales are immutable once written.
func (s *Store) CreateTicketSale(ctx context.Context, t *model.TicketSale) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO ticket_sales (performance_id, category, price, quantity, purchaser_name, purchaser_email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, sold_at
	`, t.PerformanceID, string(t.Category), t.Price, t.Quantity, t.PurchaserName, t.PurchaserEmail).
		Scan(&t.ID, &t.SoldAt)
	if err != nil {
		return fmt.Errorf("insert ticket sale: %w", err)
	}
	return nil
}

// CreateFeedback inserts one audience feedback entry.
func (s *Store) CreateFeedback(ctx context.Context, f *model.FeedbackEntry) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO feedback_entries (performance_id, rating, comments, name, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, submitted_at
	`, f.PerformanceID, f.Rating, f.Comments, f.Name, f.Email).
		Scan(&f.ID, &f.SubmittedAt)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// CreateCastMember inserts one cast member.
func (s *Store) CreateCastMember(ctx context.Context, m *model.CastMember) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO cast_members (production_id, name, role, email, phone, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, m.ProductionID, m.Name, m.Role, m.Email, m.Phone, m.Order).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert cast member: %w", err)
	}
	return nil
}

// CreateCrewMember inserts one crew member.
func (s *Store) CreateCrewMember(ctx context.Context, m *model.CrewMember) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO crew_members (production_id, name, position, email, phone, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, m.ProductionID, m.Name, m.Position, m.Email, m.Phone, m.Order).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert crew member: %w", err)
	}
	return nil
}

// CreateImportRecord appends one audit entry. Import records are never
// updated or deleted.
func (s *Store) CreateImportRecord(ctx context.Context, rec *model.ImportRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO import_records (id, theater_id, production_id, source, import_type,
			imported_by, imported_at, records_created, error_log, file_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, rec.ID, rec.TheaterID, rec.ProductionID, string(rec.Source), string(rec.Type),
		rec.ImportedBy, rec.ImportedAt, rec.Created, rec.ErrorLog, rec.FileName)
	if err != nil {
		return fmt.Errorf("insert import record: %w", err)
	}
	return nil
}

// ListImportRecords returns a theater's import history, newest first.
// The limit is clamped to at most 200 rows per call.
func (s *Store) ListImportRecords(ctx context.Context, theaterID int64, limit int) ([]model.ImportRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, theater_id, COALESCE(production_id, 0), source, import_type,
			imported_by, imported_at, records_created, error_log, file_name
		FROM import_records
		WHERE theater_id = $1
		ORDER BY imported_at DESC
		LIMIT $2
	`, theaterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list import records: %w", err)
	}
	defer rows.Close()

	var out []model.ImportRecord
	for rows.Next() {
		var r model.ImportRecord
		if err := rows.Scan(&r.ID, &r.TheaterID, &r.ProductionID, &r.Source, &r.Type,
			&r.ImportedBy, &r.ImportedAt, &r.Created, &r.ErrorLog, &r.FileName); err != nil {
			return nil, fmt.Errorf("scan import record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
