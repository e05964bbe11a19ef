package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"

	"github.com/kerbscan/kerbscan-backend/internal/analysis"
	"github.com/kerbscan/kerbscan-backend/internal/db"
)

// ─── INPUT TYPES ─────────────────────────────────────────────────────────────

// PersistAnalysedReportParams is everything the worker hands to the store once
// the analysis engine and AI market-value estimation are complete.
type PersistAnalysedReportParams struct {
	ReportID uuid.UUID
	Result   analysis.Result // full engine output, serialised as the report snapshot

	// Optional AI market-value range in whole AUD. Both zero when the
	// estimator was unavailable or failed — the report ships without pricing.
	MarketLowAud  int64
	MarketHighAud int64
}

// ─── ERRORS ──────────────────────────────────────────────────────────────────

// ErrReportAlreadyExists is returned by InitialiseReport when a report row for
// the scan already exists. The webhook handler should treat this as idempotent
// success — a duplicate delivery of payment_intent.succeeded should not create
// a second report.
var ErrReportAlreadyExists = errors.New("store: report already exists for scan")

// ─── METHODS ─────────────────────────────────────────────────────────────────

// InitialiseReport is called by the Stripe webhook handler on
// payment_intent.succeeded. It atomically:
//
//  1. Marks the scan as paid.
//  2. Checks whether a report row already exists (idempotency guard).
//  3. Creates a new report row in draft status with a fresh access token.
//
// If the scan was already marked paid and a report already exists (duplicate
// webhook delivery), ErrReportAlreadyExists is returned. The caller should log
// this at debug level and return HTTP 200 to Stripe immediately — no further
// work is needed.
//
// If MarkScanPaid succeeds but CreateReport fails, the whole transaction
// rolls back so the scan remains unpaid. The next webhook delivery will
// retry cleanly.
func (s *Store) InitialiseReport(ctx context.Context, stripePaymentIntent string) (db.Report, error) {
	var report db.Report

	err := s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		// 1. Mark scan paid. MarkScanPaid matches on stripe_payment_intent,
		//    so it is safe to call for any PI string.
		scan, err := q.MarkScanPaid(ctx, sql.NullString{
			String: stripePaymentIntent,
			Valid:  true,
		})
		if err != nil {
			return fmt.Errorf("InitialiseReport: mark scan paid: %w", err)
		}

		// 2. Idempotency guard — report may already exist from a prior delivery.
		existing, err := q.GetReportByScanID(ctx, scan.ID)
		if err == nil {
			// Row found — surface the sentinel and return the existing report so
			// the caller can enqueue it for processing if its status is not ready.
			report = existing
			return ErrReportAlreadyExists
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("InitialiseReport: check existing report: %w", err)
		}

		// 3. Create draft report. The access token is the opaque capability the
		//    buyer uses to open the report; it never appears in logs.
		created, err := q.CreateReport(ctx, db.CreateReportParams{
			ScanID:      scan.ID,
			AccessToken: uuid.NewString(),
		})
		if err != nil {
			return fmt.Errorf("InitialiseReport: create report: %w", err)
		}

		report = created
		return nil
	})

	if errors.Is(err, ErrReportAlreadyExists) {
		return report, ErrReportAlreadyExists
	}
	if err != nil {
		return db.Report{}, err
	}

	return report, nil
}

// PersistAnalysedReport is called by the background worker once the analysis
// engine has run and AI market-value estimation has completed (or been skipped).
// It atomically:
//
//  1. Sets the report status to processing (claims the work slot).
//  2. Serialises the engine result and finalises the report
//     (status=ready, sets verdict, scores, snapshot and market range).
//
// If any step fails the entire transaction rolls back, leaving the report in
// its previous state. The worker's retry loop will pick it up again via
// ListPendingReports.
func (s *Store) PersistAnalysedReport(ctx context.Context, p PersistAnalysedReportParams) (db.Report, error) {
	var report db.Report

	err := s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		// 1. Claim the report. If another worker process already set
		//    status=processing this still succeeds (idempotent for the status
		//    field); the serializable transaction is the real guard — only one
		//    writer can finalise a given report_id.
		if _, err := q.SetReportProcessing(ctx, p.ReportID); err != nil {
			return fmt.Errorf("PersistAnalysedReport: set processing: %w", err)
		}

		// 2. Serialise the snapshot here so the stored JSON is always consistent
		//    with the verdict/score columns written in the same transaction.
		analysisJSON, err := json.Marshal(p.Result)
		if err != nil {
			return fmt.Errorf("PersistAnalysedReport: marshal analysis JSON: %w", err)
		}

		finalised, err := q.FinalizeReport(ctx, db.FinalizeReportParams{
			ID: p.ReportID,
			Verdict: sql.NullString{
				String: string(p.Result.Verdict),
				Valid:  true,
			},
			ConfidenceScore: sql.NullInt16{
				Int16: int16(p.Result.ConfidenceScore),
				Valid: true,
			},
			CompletenessScore: sql.NullInt16{
				Int16: int16(p.Result.CompletenessScore),
				Valid: true,
			},
			AnalysisJson: pqtype.NullRawMessage{
				RawMessage: analysisJSON,
				Valid:      true,
			},
			MarketLowAud: sql.NullInt64{
				Int64: p.MarketLowAud,
				Valid: p.MarketLowAud > 0,
			},
			MarketHighAud: sql.NullInt64{
				Int64: p.MarketHighAud,
				Valid: p.MarketHighAud > 0,
			},
		})
		if err != nil {
			return fmt.Errorf("PersistAnalysedReport: finalize report: %w", err)
		}

		report = finalised
		return nil
	})

	if err != nil {
		return db.Report{}, err
	}

	return report, nil
}

// MarkReportFailed sets the report status to error with a descriptive message.
// Called by the worker when analysis fails permanently (i.e. after exhausting
// retries). This is a single-query write — no transaction needed — but it
// lives here because it is logically part of the report lifecycle and the
// worker should not call db.Querier directly for this.
func (s *Store) MarkReportFailed(ctx context.Context, reportID uuid.UUID, reason string) (db.Report, error) {
	report, err := s.q.SetReportError(ctx, db.SetReportErrorParams{
		ID: reportID,
		ErrorMessage: sql.NullString{
			String: reason,
			Valid:  true,
		},
	})
	if err != nil {
		return db.Report{}, fmt.Errorf("MarkReportFailed: %w", err)
	}
	return report, nil
}
