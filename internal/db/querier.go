package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Querier is the full query surface. Handlers, the store and the worker all
// depend on this interface, never on *Queries directly, so tests can swap in
// a stub.
type Querier interface {
	// Scans
	CreateScan(ctx context.Context, anonToken string) (Scan, error)
	GetScanByID(ctx context.Context, id uuid.UUID) (Scan, error)
	GetScanByAnonToken(ctx context.Context, anonToken string) (Scan, error)
	UpdateScanVehicle(ctx context.Context, arg UpdateScanVehicleParams) (Scan, error)
	UpsertScanProgress(ctx context.Context, arg UpsertScanProgressParams) (Scan, error)
	SetScanEmail(ctx context.Context, arg SetScanEmailParams) (Scan, error)
	SetScanPaymentIntent(ctx context.Context, arg SetScanPaymentIntentParams) (Scan, error)
	MarkScanPaid(ctx context.Context, stripePaymentIntent sql.NullString) (Scan, error)

	// Reports
	CreateReport(ctx context.Context, arg CreateReportParams) (Report, error)
	GetReportByID(ctx context.Context, id uuid.UUID) (Report, error)
	GetReportByScanID(ctx context.Context, scanID uuid.UUID) (Report, error)
	GetReportByAccessToken(ctx context.Context, accessToken string) (Report, error)
	SetReportProcessing(ctx context.Context, id uuid.UUID) (Report, error)
	FinalizeReport(ctx context.Context, arg FinalizeReportParams) (Report, error)
	SetReportError(ctx context.Context, arg SetReportErrorParams) (Report, error)
	ListPendingReports(ctx context.Context, limit int32) ([]Report, error)

	// Stripe events
	InsertStripeEvent(ctx context.Context, arg InsertStripeEventParams) (StripeEvent, error)
	MarkStripeEventProcessed(ctx context.Context, id string) error
	MarkStripeEventFailed(ctx context.Context, arg MarkStripeEventFailedParams) error
}

var _ Querier = (*Queries)(nil)
