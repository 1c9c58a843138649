package importer

// schema.go declares the fixed column schema and apply behavior for each of
// the five import types as one table of Definitions. Adding an import type
// means adding an entry here, not branching in the row loop.

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/stagedesk/boxoffice/internal/model"
)

// ApplyFunc persists one coerced row. It reports whether a record was
// created; tickets and feedback rows whose performance lookup misses return
// (false, nil) and are skipped without an error entry.
type ApplyFunc func(ctx context.Context, st Store, prod *model.Production, f Fields, now time.Time) (bool, error)

// Definition binds an import type to its column rules and row handler.
type Definition struct {
	Type    model.ImportType
	Label   string
	Columns []ColumnRule
	Apply   ApplyFunc
}

var definitions = map[model.ImportType]Definition{
	model.ImportEvents: {
		Type:  model.ImportEvents,
		Label: "Performances",
		Columns: []ColumnRule{
			{Name: "date", Kind: FieldTimestamp, Required: true},
			{Name: "venue", Kind: FieldText},
			{Name: "capacity", Kind: FieldInt, Default: "0"},
			{Name: "tickets_sold", Kind: FieldInt, Default: "0"},
			{Name: "revenue", Kind: FieldMoney, Default: "0.00"},
			{Name: "notes", Kind: FieldText},
		},
		Apply: applyEvent,
	},
	model.ImportCast: {
		Type:  model.ImportCast,
		Label: "Cast Members",
		Columns: []ColumnRule{
			{Name: "name", Kind: FieldText, Required: true},
			{Name: "role", Kind: FieldText},
			{Name: "email", Kind: FieldText},
			{Name: "phone", Kind: FieldText},
			{Name: "order", Kind: FieldInt, Default: "0"},
		},
		Apply: applyCast,
	},
	model.ImportCrew: {
		Type:  model.ImportCrew,
		Label: "Crew Members",
		Columns: []ColumnRule{
			{Name: "name", Kind: FieldText, Required: true},
			{Name: "position", Kind: FieldText},
			{Name: "email", Kind: FieldText},
			{Name: "phone", Kind: FieldText},
			{Name: "order", Kind: FieldInt, Default: "0"},
		},
		Apply: applyCrew,
	},
	model.ImportTickets: {
		Type:  model.ImportTickets,
		Label: "Ticket Sales",
		Columns: []ColumnRule{
			{Name: "event_date", Kind: FieldTimestamp, Required: true},
			{Name: "ticket_type", Kind: FieldCategory, Default: string(model.CategoryAdult)},
			{Name: "price", Kind: FieldMoney, Default: "0.00"},
			{Name: "quantity", Kind: FieldInt, Default: "1"},
			{Name: "purchaser_name", Kind: FieldText},
			{Name: "purchaser_email", Kind: FieldText},
		},
		Apply: applyTicket,
	},
	model.ImportFeedback: {
		Type:  model.ImportFeedback,
		Label: "Audience Feedback",
		Columns: []ColumnRule{
			{Name: "event_date", Kind: FieldTimestamp, Required: true},
			{Name: "rating", Kind: FieldInt, Default: "5"},
			{Name: "comments", Kind: FieldText},
			{Name: "name", Kind: FieldText},
			{Name: "email", Kind: FieldText},
		},
		Apply: applyFeedback,
	},
}

// Lookup returns the definition for an import type.
func Lookup(typ model.ImportType) (Definition, bool) {
	def, ok := definitions[typ]
	return def, ok
}

// Definitions returns all import definitions keyed by type.
func Definitions() map[model.ImportType]Definition {
	out := make(map[model.ImportType]Definition, len(definitions))
	for k, v := range definitions {
		out[k] = v
	}
	return out
}

func applyEvent(ctx context.Context, st Store, prod *model.Production, f Fields, now time.Time) (bool, error) {
	perf := &model.Performance{
		ProductionID: prod.ID,
		StartsAt:     f.Time("date"),
		Venue:        f.Text("venue"),
		Capacity:     f.Int("capacity"),
		TicketsSold:  f.Int("tickets_sold"),
		Revenue:      f.Money("revenue"),
		Notes:        f.Text("notes"),
		CreatedAt:    now,
	}
	if err := st.CreatePerformance(ctx, perf); err != nil {
		return false, &StorageError{Op: "create performance", Err: err}
	}
	return true, nil
}

func applyCast(ctx context.Context, st Store, prod *model.Production, f Fields, _ time.Time) (bool, error) {
	member := &model.CastMember{
		ProductionID: prod.ID,
		Name:         f.Text("name"),
		Role:         f.Text("role"),
		Email:        f.Text("email"),
		Phone:        f.Text("phone"),
		Order:        f.Int("order"),
	}
	if err := st.CreateCastMember(ctx, member); err != nil {
		return false, &StorageError{Op: "create cast member", Err: err}
	}
	return true, nil
}

func applyCrew(ctx context.Context, st Store, prod *model.Production, f Fields, _ time.Time) (bool, error) {
	member := &model.CrewMember{
		ProductionID: prod.ID,
		Name:         f.Text("name"),
		Position:     f.Text("position"),
		Email:        f.Text("email"),
		Phone:        f.Text("phone"),
		Order:        f.Int("order"),
	}
	if err := st.CreateCrewMember(ctx, member); err != nil {
		return false, &StorageError{Op: "create crew member", Err: err}
	}
	return true, nil
}

func applyTicket(ctx context.Context, st Store, prod *model.Production, f Fields, now time.Time) (bool, error) {
	quantity := f.Int("quantity")
	if quantity <= 0 {
		return false, &FieldFormatError{Column: "quantity", Value: strconv.Itoa(quantity)}
	}
	price := f.Money("price")
	if price.IsNegative() {
		return false, &FieldFormatError{Column: "price", Value: price.String()}
	}

	perf, err := matchPerformance(ctx, st, prod.ID, f.Time("event_date"))
	if err != nil {
		return false, err
	}
	if perf == nil {
		return false, nil
	}

	sale := &model.TicketSale{
		PerformanceID:  perf.ID,
		Category:       model.TicketCategory(f.Text("ticket_type")),
		Price:          price,
		Quantity:       quantity,
		PurchaserName:  f.Text("purchaser_name"),
		PurchaserEmail: f.Text("purchaser_email"),
		SoldAt:         now,
	}
	if err := st.CreateTicketSale(ctx, sale); err != nil {
		return false, &StorageError{Op: "create ticket sale", Err: err}
	}
	if err := st.ApplyTicketTotals(ctx, perf.ID, sale.Quantity, sale.Total()); err != nil {
		return false, &StorageError{Op: "apply ticket totals", Err: err}
	}
	return true, nil
}

func applyFeedback(ctx context.Context, st Store, prod *model.Production, f Fields, now time.Time) (bool, error) {
	perf, err := matchPerformance(ctx, st, prod.ID, f.Time("event_date"))
	if err != nil {
		return false, err
	}
	if perf == nil {
		return false, nil
	}

	rating := f.Int("rating")
	if rating < 1 || rating > 5 {
		return false, &FieldFormatError{Column: "rating", Value: strconv.Itoa(rating)}
	}

	entry := &model.FeedbackEntry{
		PerformanceID: perf.ID,
		Rating:        rating,
		Comments:      f.Text("comments"),
		Name:          f.Text("name"),
		Email:         f.Text("email"),
		SubmittedAt:   now,
	}
	if err := st.CreateFeedback(ctx, entry); err != nil {
		return false, &StorageError{Op: "create feedback", Err: err}
	}
	return true, nil
}

// matchPerformance resolves a performance by its exact start timestamp.
// A miss is not an error: the caller skips the row without counting it.
func matchPerformance(ctx context.Context, st Store, productionID int64, startsAt time.Time) (*model.Performance, error) {
	perf, err := st.PerformanceByStart(ctx, productionID, startsAt)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil
		}
		return nil, &StorageError{Op: "match performance", Err: err}
	}
	return perf, nil
}
