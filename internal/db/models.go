package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// ReportStatus tracks a report through its lifecycle:
// draft → processing → ready, or draft/processing → error.
type ReportStatus string

const (
	ReportStatusDraft      ReportStatus = "draft"
	ReportStatusProcessing ReportStatus = "processing"
	ReportStatusReady      ReportStatus = "ready"
	ReportStatusError      ReportStatus = "error"
)

// Scan is one anonymous inspection session. The buyer's checklist answers,
// photos and imperfections live in Progress as a single JSONB snapshot —
// the engine consumes the decoded snapshot, never individual columns.
type Scan struct {
	ID                  uuid.UUID
	AnonToken           string
	VehicleMake         sql.NullString
	VehicleModel        sql.NullString
	VehicleYear         sql.NullInt16
	OdometerKm          sql.NullInt32
	Vin                 sql.NullString
	AskingPriceAud      sql.NullInt64
	Email               sql.NullString
	Progress            pqtype.NullRawMessage
	StripeCustomerID    sql.NullString
	StripePaymentIntent sql.NullString
	Paid                bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Report is the purchasable analysis output for one scan. AnalysisJson holds
// the full engine result; MarketLowAud/MarketHighAud are the optional
// AI-estimated market value range.
type Report struct {
	ID                uuid.UUID
	ScanID            uuid.UUID
	AccessToken       string
	Status            ReportStatus
	Verdict           sql.NullString
	ConfidenceScore   sql.NullInt16
	CompletenessScore sql.NullInt16
	AnalysisJson      pqtype.NullRawMessage
	MarketLowAud      sql.NullInt64
	MarketHighAud     sql.NullInt64
	ErrorMessage      sql.NullString
	Attempts          int32
	CreatedAt         time.Time
	UpdatedAt         time.Time
	CompletedAt       sql.NullTime
}

// StripeEvent is one received webhook event, stored for idempotent
// processing: the event ID is the primary key, so a redelivered event
// conflicts on insert and is skipped.
type StripeEvent struct {
	ID           string
	Type         string
	Payload      pqtype.NullRawMessage
	Processed    bool
	ErrorMessage sql.NullString
	ReceivedAt   time.Time
}
