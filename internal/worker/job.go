package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/kerbscan/kerbscan-backend/internal/ai"
	"github.com/kerbscan/kerbscan-backend/internal/analysis"
	"github.com/kerbscan/kerbscan-backend/internal/db"
	"github.com/kerbscan/kerbscan-backend/internal/email"
	"github.com/kerbscan/kerbscan-backend/internal/store"
)

// Job holds the dependencies for the analyse-and-deliver pipeline. Each step
// is a separate method so they can be tested independently and so the Run
// method reads like a checklist.
type Job struct {
	q      db.Querier
	store  *store.Store
	valuer ai.Valuer
	mailer email.Sender
	logger *slog.Logger
}

// NewJob constructs a Job with all required dependencies.
func NewJob(
	q db.Querier,
	st *store.Store,
	valuer ai.Valuer,
	mailer email.Sender,
	logger *slog.Logger,
) *Job {
	return &Job{
		q:      q,
		store:  st,
		valuer: valuer,
		mailer: mailer,
		logger: logger,
	}
}

// Run executes the full pipeline for a single report:
//
//  1. Load the report and its scan from the database.
//  2. Decode the captured inspection progress.
//  3. Run the deterministic analysis engine over it.
//  4. Ask the AI valuer for a market range (non-fatal on failure).
//  5. Persist everything atomically via store.PersistAnalysedReport.
//  6. Send the delivery email.
//
// Any error is returned to the Runner, which will retry up to MaxRetries times
// before calling store.MarkReportFailed.
func (j *Job) Run(ctx context.Context, reportID uuid.UUID) error {
	log := j.logger.With("report_id", reportID)
	log.Info("job: starting")

	// ── 1. Load the report to get the scan ID ─────────────────────────────────
	report, err := j.q.GetReportByID(ctx, reportID)
	if err != nil {
		return fmt.Errorf("job: get report: %w", err)
	}

	scan, err := j.q.GetScanByID(ctx, report.ScanID)
	if err != nil {
		return fmt.Errorf("job: get scan: %w", err)
	}

	// ── 2. Decode the stored inspection progress ──────────────────────────────
	// A paid scan with no saved progress still produces a report: the engine
	// treats an empty record as zero evidence and walks away.
	var progress analysis.ScanProgress
	if scan.Progress.Valid {
		if err := json.Unmarshal(scan.Progress.RawMessage, &progress); err != nil {
			return fmt.Errorf("job: decode scan progress: %w", err)
		}
	}

	log.Debug("job: loaded scan",
		"checks", len(progress.Checks),
		"photos", len(progress.Photos),
		"imperfections", len(progress.Imperfections),
	)

	// ── 3. Analyse ────────────────────────────────────────────────────────────
	result := analysis.Analyse(progress)

	log.Debug("job: analysed scan",
		"verdict", result.Verdict,
		"confidence", result.ConfidenceScore,
		"completeness", result.CompletenessScore,
		"risks", len(result.Risks),
	)

	// ── 4. AI market valuation ────────────────────────────────────────────────
	// Valuation failure is non-fatal: the report ships without a market range.
	// The verdict and negotiation bands come from the engine, not the AI.
	var marketLow, marketHigh int64
	estimate, err := j.valuer.EstimateMarketValue(ctx, vehicleFacts(scan, result))
	if err != nil {
		log.Warn("job: market valuation failed, shipping report without range", "error", err)
	} else {
		marketLow, marketHigh = estimate.LowAud, estimate.HighAud
	}

	// ── 5. Persist everything atomically ──────────────────────────────────────
	finalReport, err := j.store.PersistAnalysedReport(ctx, store.PersistAnalysedReportParams{
		ReportID:      reportID,
		Result:        result,
		MarketLowAud:  marketLow,
		MarketHighAud: marketHigh,
	})
	if err != nil {
		return fmt.Errorf("job: persist report: %w", err)
	}

	log.Info("job: report persisted",
		"verdict", finalReport.Verdict.String,
		"confidence", finalReport.ConfidenceScore.Int16,
		"access_token", finalReport.AccessToken,
	)

	// ── 6. Send delivery email ────────────────────────────────────────────────
	if !scan.Email.Valid || scan.Email.String == "" {
		log.Warn("job: scan has no email address, skipping delivery email")
		return nil
	}

	if err := j.mailer.SendReportReady(ctx, email.ReportReadyParams{
		To:          scan.Email.String,
		Vehicle:     vehicleLabel(scan),
		AccessToken: finalReport.AccessToken,
	}); err != nil {
		// Log but do not fail — the buyer can still reach their report via the
		// access token link shown after checkout.
		log.Error("job: failed to send report email",
			"to", scan.Email.String,
			"error", err,
		)
	}

	return nil
}

// vehicleFacts assembles the valuation request from the scan record and the
// engine output. Only risk labels are forwarded, never free-text notes.
func vehicleFacts(scan db.Scan, result analysis.Result) ai.VehicleFacts {
	findings := make([]string, 0, len(result.Risks))
	for _, r := range result.Risks {
		findings = append(findings, r.Label)
	}

	facts := ai.VehicleFacts{
		Make:     scan.VehicleMake.String,
		Model:    scan.VehicleModel.String,
		Verdict:  string(result.Verdict),
		Findings: findings,
	}
	if scan.VehicleYear.Valid {
		facts.Year = int(scan.VehicleYear.Int16)
	}
	if scan.OdometerKm.Valid {
		facts.OdometerKm = int(scan.OdometerKm.Int32)
	}
	if scan.AskingPriceAud.Valid {
		facts.AskingPriceAud = scan.AskingPriceAud.Int64
	}
	return facts
}

// vehicleLabel renders "2018 Toyota Corolla" from whatever vehicle fields the
// buyer filled in. Returns "" when nothing was entered.
func vehicleLabel(scan db.Scan) string {
	parts := make([]string, 0, 3)
	if scan.VehicleYear.Valid {
		parts = append(parts, fmt.Sprintf("%d", scan.VehicleYear.Int16))
	}
	if scan.VehicleMake.Valid && scan.VehicleMake.String != "" {
		parts = append(parts, scan.VehicleMake.String)
	}
	if scan.VehicleModel.Valid && scan.VehicleModel.String != "" {
		parts = append(parts, scan.VehicleModel.String)
	}
	return strings.Join(parts, " ")
}
