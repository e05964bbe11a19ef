package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const reportColumns = `id, scan_id, access_token, status, verdict,
	confidence_score, completeness_score, analysis_json, market_low_aud,
	market_high_aud, error_message, attempts, created_at, updated_at,
	completed_at`

func scanReportRow(row *sql.Row) (Report, error) {
	var r Report
	err := row.Scan(
		&r.ID,
		&r.ScanID,
		&r.AccessToken,
		&r.Status,
		&r.Verdict,
		&r.ConfidenceScore,
		&r.CompletenessScore,
		&r.AnalysisJson,
		&r.MarketLowAud,
		&r.MarketHighAud,
		&r.ErrorMessage,
		&r.Attempts,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.CompletedAt,
	)
	return r, err
}

const createReport = `
INSERT INTO reports (scan_id, access_token, status)
VALUES ($1, $2, 'draft')
RETURNING ` + reportColumns

type CreateReportParams struct {
	ScanID      uuid.UUID
	AccessToken string
}

func (q *Queries) CreateReport(ctx context.Context, arg CreateReportParams) (Report, error) {
	return scanReportRow(q.db.QueryRowContext(ctx, createReport, arg.ScanID, arg.AccessToken))
}

const getReportByID = `
SELECT ` + reportColumns + `
FROM reports
WHERE id = $1`

func (q *Queries) GetReportByID(ctx context.Context, id uuid.UUID) (Report, error) {
	return scanReportRow(q.db.QueryRowContext(ctx, getReportByID, id))
}

const getReportByScanID = `
SELECT ` + reportColumns + `
FROM reports
WHERE scan_id = $1`

func (q *Queries) GetReportByScanID(ctx context.Context, scanID uuid.UUID) (Report, error) {
	return scanReportRow(q.db.QueryRowContext(ctx, getReportByScanID, scanID))
}

const getReportByAccessToken = `
SELECT ` + reportColumns + `
FROM reports
WHERE access_token = $1`

func (q *Queries) GetReportByAccessToken(ctx context.Context, accessToken string) (Report, error) {
	return scanReportRow(q.db.QueryRowContext(ctx, getReportByAccessToken, accessToken))
}

const setReportProcessing = `
UPDATE reports
SET status     = 'processing',
    attempts   = attempts + 1,
    updated_at = now()
WHERE id = $1
RETURNING ` + reportColumns

func (q *Queries) SetReportProcessing(ctx context.Context, id uuid.UUID) (Report, error) {
	return scanReportRow(q.db.QueryRowContext(ctx, setReportProcessing, id))
}

const finalizeReport = `
UPDATE reports
SET status             = 'ready',
    verdict            = $2,
    confidence_score   = $3,
    completeness_score = $4,
    analysis_json      = $5,
    market_low_aud     = $6,
    market_high_aud    = $7,
    error_message      = NULL,
    updated_at         = now(),
    completed_at       = now()
WHERE id = $1
RETURNING ` + reportColumns

type FinalizeReportParams struct {
	ID                uuid.UUID
	Verdict           sql.NullString
	ConfidenceScore   sql.NullInt16
	CompletenessScore sql.NullInt16
	AnalysisJson      pqtype.NullRawMessage
	MarketLowAud      sql.NullInt64
	MarketHighAud     sql.NullInt64
}

func (q *Queries) FinalizeReport(ctx context.Context, arg FinalizeReportParams) (Report, error) {
	return scanReportRow(q.db.QueryRowContext(ctx, finalizeReport,
		arg.ID,
		arg.Verdict,
		arg.ConfidenceScore,
		arg.CompletenessScore,
		arg.AnalysisJson,
		arg.MarketLowAud,
		arg.MarketHighAud,
	))
}

const setReportError = `
UPDATE reports
SET status        = 'error',
    error_message = $2,
    updated_at    = now()
WHERE id = $1
RETURNING ` + reportColumns

type SetReportErrorParams struct {
	ID           uuid.UUID
	ErrorMessage sql.NullString
}

func (q *Queries) SetReportError(ctx context.Context, arg SetReportErrorParams) (Report, error) {
	return scanReportRow(q.db.QueryRowContext(ctx, setReportError, arg.ID, arg.ErrorMessage))
}

const listPendingReports = `
SELECT ` + reportColumns + `
FROM reports
WHERE status IN ('draft', 'processing')
ORDER BY created_at
LIMIT $1`

// ListPendingReports is the worker's recovery poll: reports still in draft
// (enqueue lost, e.g. process restart) or stuck in processing.
func (q *Queries) ListPendingReports(ctx context.Context, limit int32) ([]Report, error) {
	rows, err := q.db.QueryContext(ctx, listPendingReports, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		if err := rows.Scan(
			&r.ID,
			&r.ScanID,
			&r.AccessToken,
			&r.Status,
			&r.Verdict,
			&r.ConfidenceScore,
			&r.CompletenessScore,
			&r.AnalysisJson,
			&r.MarketLowAud,
			&r.MarketHighAud,
			&r.ErrorMessage,
			&r.Attempts,
			&r.CreatedAt,
			&r.UpdatedAt,
			&r.CompletedAt,
		); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
