// Package importer implements the CSV bulk-import pipeline: parsing an
// uploaded stream into rows, coercing fields per import type, matching
// attached rows to existing performances, persisting records, and writing
// one audit entry per invocation.
package importer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stagedesk/boxoffice/internal/logging"
	"github.com/stagedesk/boxoffice/internal/model"
)

// Store is the persistence surface the pipeline needs. The concrete
// implementation lives in internal/store; tests substitute fakes.
//
// PerformanceByStart returns model.ErrNotFound when no performance has the
// exact (production, start) key. ApplyTicketTotals must increment the
// running totals atomically; concurrent imports against one performance
// rely on the storage layer for isolation.
type Store interface {
	CreatePerformance(ctx context.Context, p *model.Performance) error
	PerformanceByStart(ctx context.Context, productionID int64, startsAt time.Time) (*model.Performance, error)
	CreateTicketSale(ctx context.Context, t *model.TicketSale) error
	ApplyTicketTotals(ctx context.Context, performanceID int64, quantity int, amount decimal.Decimal) error
	CreateFeedback(ctx context.Context, f *model.FeedbackEntry) error
	CreateCastMember(ctx context.Context, m *model.CastMember) error
	CreateCrewMember(ctx context.Context, m *model.CrewMember) error
	CreateImportRecord(ctx context.Context, rec *model.ImportRecord) error
}

// Outcome is the result of one import invocation.
type Outcome struct {
	Created int
	Errors  []RowError
	Record  *model.ImportRecord
}

// ErrorLog joins the error list into the newline-separated form stored on
// the audit record.
func (o *Outcome) ErrorLog() string {
	if len(o.Errors) == 0 {
		return ""
	}
	lines := make([]string, len(o.Errors))
	for i, e := range o.Errors {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// Request identifies one import invocation.
type Request struct {
	Type       model.ImportType
	Production *model.Production
	ActingUser string
	FileName   string
}

// Importer drives the pipeline. Imports run sequentially within one call;
// rows are applied in file order so a later row observes earlier effects.
type Importer struct {
	store Store
	now   func() time.Time
}

// New returns an Importer backed by st.
func New(st Store) *Importer {
	return &Importer{store: st, now: time.Now}
}

// Run processes the upload end to end.
//
// Row-level validation failures are collected and processing continues; a
// storage or internal failure stops the row loop, keeping the count
// accumulated so far. Exactly one ImportRecord is written per invocation,
// win or lose. The exception is input that cannot be decoded at all: Run
// fails before any row and nothing is audited. A failure to
// persist the audit record is the terminal error of the whole operation.
func (imp *Importer) Run(ctx context.Context, r io.Reader, req Request) (*Outcome, error) {
	def, ok := Lookup(req.Type)
	if !ok {
		return nil, fmt.Errorf("unknown import type %q", req.Type)
	}

	log := logging.WithFields(ctx,
		"import_type", req.Type,
		"production_id", req.Production.ID,
	)

	_, rows, err := ReadRows(r)
	if err != nil {
		log.Warn("import rejected", "error", err)
		return nil, err
	}

	outcome := &Outcome{}
	started := imp.now()

	for i, row := range rows {
		line := i + 2 // header is line 1

		fields, err := CoerceRow(row, def.Columns)
		if err != nil {
			outcome.Errors = append(outcome.Errors, RowError{Line: line, Kind: KindValidation, Err: err})
			continue
		}

		created, err := def.Apply(ctx, imp.store, req.Production, fields, imp.now())
		if err != nil {
			kind := Classify(err)
			if kind == KindValidation {
				outcome.Errors = append(outcome.Errors, RowError{Line: line, Kind: kind, Err: err})
				continue
			}
			// Storage or logic fault: abandon the remaining rows but keep
			// what was already created, and still audit the attempt.
			outcome.Errors = append(outcome.Errors, RowError{Line: line, Kind: kind, Err: err})
			log.Error("import aborted", "line", line, "kind", string(kind), "error", err)
			break
		}
		if created {
			outcome.Created++
		}
	}

	rec := &model.ImportRecord{
		ID:           uuid.NewString(),
		TheaterID:    req.Production.TheaterID,
		ProductionID: req.Production.ID,
		Source:       model.SourceCSV,
		Type:         req.Type,
		ImportedBy:   req.ActingUser,
		ImportedAt:   imp.now(),
		Created:      outcome.Created,
		ErrorLog:     outcome.ErrorLog(),
		FileName:     req.FileName,
	}
	if err := imp.store.CreateImportRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("record import audit: %w", err)
	}
	outcome.Record = rec

	log.Info("import finished",
		"created", outcome.Created,
		"errors", len(outcome.Errors),
		"rows", len(rows),
		"duration", imp.now().Sub(started),
	)

	return outcome, nil
}
