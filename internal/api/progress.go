package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kerbscan/kerbscan-backend/internal/analysis"
	"github.com/kerbscan/kerbscan-backend/internal/db"
	"github.com/sqlc-dev/pqtype"
)

// ─── PUT /api/scan/:scanID/progress ──────────────────────────────────────────
//
// Accepts the full current inspection record and stores it verbatim as JSONB.
// The browser sends the complete record on every navigation (or on debounce),
// so replaying the same payload is always safe.

type upsertProgressResponse struct {
	Saved         bool `json:"saved"`
	Checks        int  `json:"checks"`
	Photos        int  `json:"photos"`
	Imperfections int  `json:"imperfections"`
}

// handleUpsertProgress validates and stores the inspection record.
//
// The raw bytes are kept, not a re-encoding: the worker and the analysis
// preview both decode the same stored JSON, so what the browser saved is
// exactly what gets analysed. Validation only confirms the payload decodes
// into the expected record shape.
func (s *Server) handleUpsertProgress(w http.ResponseWriter, r *http.Request) {
	scanID, err := scanIDParam(r)
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid scan_id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB max
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		respondErr(w, http.StatusBadRequest, "could not read request body")
		return
	}
	if len(raw) == 0 {
		respondErr(w, http.StatusBadRequest, "request body must not be empty")
		return
	}

	var progress analysis.ScanProgress
	if err := json.Unmarshal(raw, &progress); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid inspection record: "+err.Error())
		return
	}

	_, err = s.q.UpsertScanProgress(r.Context(), db.UpsertScanProgressParams{
		ID: scanID,
		Progress: pqtype.NullRawMessage{
			RawMessage: json.RawMessage(raw),
			Valid:      true,
		},
	})
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("upsert progress: %w", err))
		return
	}

	respond(w, http.StatusOK, upsertProgressResponse{
		Saved:         true,
		Checks:        len(progress.Checks),
		Photos:        len(progress.Photos),
		Imperfections: len(progress.Imperfections),
	})
}
