package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kerbscan/kerbscan-backend/internal/db"
)

// ─── GET /api/report/:accessToken ────────────────────────────────────────────

type reportResponse struct {
	ReportID          string `json:"report_id"`
	Status            string `json:"status"`
	Vehicle           string `json:"vehicle,omitempty"`
	Verdict           string `json:"verdict"`
	ConfidenceScore   int16  `json:"confidence_score"`
	CompletenessScore int16  `json:"completeness_score"`
	// Analysis is the full engine output exactly as persisted by the worker.
	Analysis      json.RawMessage `json:"analysis"`
	MarketLowAud  int64           `json:"market_low_aud,omitempty"`
	MarketHighAud int64           `json:"market_high_aud,omitempty"`
	CompletedAt   string          `json:"completed_at,omitempty"`
}

// handleGetReport serves the completed inspection report. The access token is
// an opaque UUID string stored on the report row — no scan authentication is
// needed. The buyer receives this link in their email.
//
// Returns 404 for an unknown token. Returns 202 Accepted while the report is
// still being generated (draft/processing) so the frontend can poll, and 500
// once generation has permanently failed.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	accessToken := chi.URLParam(r, "accessToken")
	if accessToken == "" {
		respondErr(w, http.StatusBadRequest, "missing access token")
		return
	}

	report, err := s.q.GetReportByAccessToken(r.Context(), accessToken)
	if errors.Is(err, sql.ErrNoRows) {
		respondErr(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("get report: %w", err))
		return
	}

	switch report.Status {
	case db.ReportStatusReady:
		// fall through to the full response below
	case db.ReportStatusError:
		respondErr(w, http.StatusInternalServerError, "report generation failed, please contact support")
		return
	default:
		// Report is still being generated — tell the client to poll.
		respond(w, http.StatusAccepted, map[string]string{
			"status":  string(report.Status),
			"message": "report is being generated, please check back shortly",
		})
		return
	}

	// Load the scan for the vehicle headline. Non-fatal: the analysis body is
	// the product, the label is cosmetic.
	vehicle := ""
	if scan, err := s.q.GetScanByID(r.Context(), report.ScanID); err == nil {
		vehicle = vehicleLabel(scan)
	} else {
		s.logger.Warn("report: could not load scan for vehicle label",
			"report_id", report.ID,
			"error", err,
			logField(r),
		)
	}

	completedAt := ""
	if report.CompletedAt.Valid {
		completedAt = report.CompletedAt.Time.UTC().Format("2006-01-02T15:04:05Z")
	}

	respond(w, http.StatusOK, reportResponse{
		ReportID:          report.ID.String(),
		Status:            string(report.Status),
		Vehicle:           vehicle,
		Verdict:           report.Verdict.String,
		ConfidenceScore:   report.ConfidenceScore.Int16,
		CompletenessScore: report.CompletenessScore.Int16,
		Analysis:          json.RawMessage(report.AnalysisJson.RawMessage),
		MarketLowAud:      report.MarketLowAud.Int64,
		MarketHighAud:     report.MarketHighAud.Int64,
		CompletedAt:       completedAt,
	})
}
