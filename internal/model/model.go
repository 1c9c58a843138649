// Package model defines the domain entities shared by the importer, the
// store, and the HTTP layer.
package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound signals a lookup that matched no record.
var ErrNotFound = errors.New("not found")

// Theater is the owning organization for productions and imports.
type Theater struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Production is a show spanning one or more performances.
type Production struct {
	ID          int64     `json:"id"`
	TheaterID   int64     `json:"theaterId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Director    string    `json:"director,omitempty"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Performance is one scheduled occurrence of a production. Its identity
// within a production is the exact start timestamp.
//
// TicketsSold and Revenue are running totals bumped by ticket-sale imports.
// They may exceed Capacity; over-sell is recorded, never rejected.
type Performance struct {
	ID          int64           `json:"id"`
	ProductionID int64          `json:"productionId"`
	StartsAt    time.Time       `json:"startsAt"`
	Venue       string          `json:"venue,omitempty"`
	Capacity    int             `json:"capacity"`
	TicketsSold int             `json:"ticketsSold"`
	Revenue     decimal.Decimal `json:"revenue"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// TicketCategory is the fixed enumeration of ticket types. Imports accept
// unrecognized values as-is; the enumeration exists for display and defaults.
type TicketCategory string

const (
	CategoryAdult   TicketCategory = "adult"
	CategoryStudent TicketCategory = "student"
	CategorySenior  TicketCategory = "senior"
	CategoryChild   TicketCategory = "child"
	CategoryComp    TicketCategory = "comp"
)

// TicketCategories lists the known categories in display order. The first
// entry is the default when a category column is absent.
var TicketCategories = []TicketCategory{
	CategoryAdult, CategoryStudent, CategorySenior, CategoryChild, CategoryComp,
}

// TicketSale is one sale record against a performance. Immutable once created.
type TicketSale struct {
	ID             int64           `json:"id"`
	PerformanceID  int64           `json:"performanceId"`
	Category       TicketCategory  `json:"category"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
	PurchaserName  string          `json:"purchaserName,omitempty"`
	PurchaserEmail string          `json:"purchaserEmail,omitempty"`
	SoldAt         time.Time       `json:"soldAt"`
}

// Total returns price multiplied by quantity.
func (t TicketSale) Total() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(int64(t.Quantity)))
}

// FeedbackEntry is one audience survey response. Immutable once created.
type FeedbackEntry struct {
	ID            int64     `json:"id"`
	PerformanceID int64     `json:"performanceId"`
	Rating        int       `json:"rating"` // 1-5 inclusive
	Comments      string    `json:"comments,omitempty"`
	Name          string    `json:"name,omitempty"`
	Email         string    `json:"email,omitempty"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// CastMember belongs to a production. Order controls billing position.
type CastMember struct {
	ID           int64  `json:"id"`
	ProductionID int64  `json:"productionId"`
	Name         string `json:"name"`
	Role         string `json:"role,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Order        int    `json:"order"`
}

// CrewMember belongs to a production.
type CrewMember struct {
	ID           int64  `json:"id"`
	ProductionID int64  `json:"productionId"`
	Name         string `json:"name"`
	Position     string `json:"position,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Order        int    `json:"order"`
}

// ImportType selects which entity a bulk import produces.
type ImportType string

const (
	ImportEvents   ImportType = "events"
	ImportCast     ImportType = "cast"
	ImportCrew     ImportType = "crew"
	ImportTickets  ImportType = "tickets"
	ImportFeedback ImportType = "feedback"
)

// ImportSource records how the data arrived.
type ImportSource string

const (
	SourceCSV    ImportSource = "csv"
	SourceExcel  ImportSource = "excel"
	SourceManual ImportSource = "manual"
)

// ImportRecord is the append-only audit entry written once per import
// invocation. Never updated or deleted.
type ImportRecord struct {
	ID           string       `json:"id"` // UUID
	TheaterID    int64        `json:"theaterId"`
	ProductionID int64        `json:"productionId,omitempty"`
	Source       ImportSource `json:"source"`
	Type         ImportType   `json:"type"`
	ImportedBy   string       `json:"importedBy,omitempty"`
	ImportedAt   time.Time    `json:"importedAt"`
	Created      int          `json:"created"`
	ErrorLog     string       `json:"errorLog,omitempty"` // newline-joined
	FileName     string       `json:"fileName,omitempty"`
}

// ProductionSummary aggregates a production's performance and feedback data.
// Totals are recomputed from child rows, not read from the running counters,
// so a drifted counter cannot skew reporting.
type ProductionSummary struct {
	ProductionID   int64           `json:"productionId"`
	Performances   int             `json:"performances"`
	TotalCapacity  int             `json:"totalCapacity"`
	TotalTickets   int             `json:"totalTickets"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	AttendanceRate float64         `json:"attendanceRate"` // percent
	AverageRating  float64         `json:"averageRating"`
	FeedbackCount  int             `json:"feedbackCount"`
}
