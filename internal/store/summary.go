package store

import (
	"context"
	"fmt"

	"github.com/stagedesk/boxoffice/internal/model"
)

// ProductionSummary recomputes a production's aggregates from its child
// rows. The performance counters are deliberately not consulted: a counter
// that drifted under concurrent imports cannot skew these numbers.
func (s *Store) ProductionSummary(ctx context.Context, productionID int64) (*model.ProductionSummary, error) {
	sum := &model.ProductionSummary{ProductionID: productionID}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(p.id),
			COALESCE(SUM(p.capacity), 0),
			COALESCE(SUM(t.quantity), 0),
			COALESCE(SUM(t.total), 0)
		FROM performances p
		LEFT JOIN (
			SELECT performance_id,
				SUM(quantity) AS quantity,
				SUM(price * quantity) AS total
			FROM ticket_sales
			GROUP BY performance_id
		) t ON t.performance_id = p.id
		WHERE p.production_id = $1
	`, productionID).Scan(&sum.Performances, &sum.TotalCapacity, &sum.TotalTickets, &sum.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("summarize performances: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(f.id), COALESCE(AVG(f.rating), 0)
		FROM feedback_entries f
		JOIN performances p ON p.id = f.performance_id
		WHERE p.production_id = $1
	`, productionID).Scan(&sum.FeedbackCount, &sum.AverageRating)
	if err != nil {
		return nil, fmt.Errorf("summarize feedback: %w", err)
	}

	if sum.TotalCapacity > 0 {
		sum.AttendanceRate = float64(sum.TotalTickets) / float64(sum.TotalCapacity) * 100
	}

	return sum, nil
}
