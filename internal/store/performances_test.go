package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"github.com/stagedesk/boxoffice/internal/model"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return New(db), mock
}

var perfColumns = []string{
	"id", "production_id", "starts_at", "venue", "capacity",
	"tickets_sold", "revenue", "notes", "created_at",
}

func TestCreatePerformance(t *testing.T) {
	st, mock := newMockStore(t)

	starts := time.Date(2024, 1, 10, 19, 0, 0, 0, time.UTC)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO performances")).
		WithArgs(int64(7), starts, "Main Hall", 100, 40, sqlmock.AnyArg(), "opening night").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), now))

	p := &model.Performance{
		ProductionID: 7,
		StartsAt:     starts,
		Venue:        "Main Hall",
		Capacity:     100,
		TicketsSold:  40,
		Revenue:      decimal.RequireFromString("600.00"),
		Notes:        "opening night",
	}
	if err := st.CreatePerformance(context.Background(), p); err != nil {
		t.Fatalf("CreatePerformance: %v", err)
	}
	if p.ID != 3 {
		t.Errorf("ID = %d, want 3", p.ID)
	}
	if !p.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", p.CreatedAt, now)
	}
}

func TestPerformanceByStart(t *testing.T) {
	st, mock := newMockStore(t)

	starts := time.Date(2024, 1, 10, 19, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE production_id = $1 AND starts_at = $2")).
		WithArgs(int64(7), starts).
		WillReturnRows(sqlmock.NewRows(perfColumns).
			AddRow(int64(3), int64(7), starts, "Main Hall", 100, 40, "600.00", "", time.Now()))

	p, err := st.PerformanceByStart(context.Background(), 7, starts)
	if err != nil {
		t.Fatalf("PerformanceByStart: %v", err)
	}
	if p.ID != 3 || p.TicketsSold != 40 {
		t.Errorf("performance = %+v", p)
	}
	if !p.Revenue.Equal(decimal.RequireFromString("600.00")) {
		t.Errorf("revenue = %s", p.Revenue)
	}
}

func TestPerformanceByStartMiss(t *testing.T) {
	st, mock := newMockStore(t)

	starts := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE production_id = $1 AND starts_at = $2")).
		WithArgs(int64(7), starts).
		WillReturnRows(sqlmock.NewRows(perfColumns))

	_, err := st.PerformanceByStart(context.Background(), 7, starts)
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v, want model.ErrNotFound", err)
	}
}

func TestApplyTicketTotals(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("SET tickets_sold = tickets_sold + $2")).
		WithArgs(int64(3), 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := st.ApplyTicketTotals(context.Background(), 3, 2, decimal.RequireFromString("30.00"))
	if err != nil {
		t.Fatalf("ApplyTicketTotals: %v", err)
	}
}

func TestApplyTicketTotalsMissingPerformance(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("SET tickets_sold = tickets_sold + $2")).
		WithArgs(int64(99), 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := st.ApplyTicketTotals(context.Background(), 99, 1, decimal.Zero)
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v, want model.ErrNotFound", err)
	}
}

func TestListPerformances(t *testing.T) {
	st, mock := newMockStore(t)

	base := time.Date(2024, 1, 10, 19, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY starts_at")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(perfColumns).
			AddRow(int64(1), int64(7), base, "Main Hall", 100, 40, "600.00", "", time.Now()).
			AddRow(int64(2), int64(7), base.AddDate(0, 0, 1), "Main Hall", 100, 0, "0.00", "", time.Now()))

	perfs, err := st.ListPerformances(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListPerformances: %v", err)
	}
	if len(perfs) != 2 {
		t.Fatalf("len = %d, want 2", len(perfs))
	}
	if perfs[0].ID != 1 || perfs[1].ID != 2 {
		t.Errorf("order = %d, %d", perfs[0].ID, perfs[1].ID)
	}
}
