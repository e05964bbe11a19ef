package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kerbscan/kerbscan-backend/internal/analysis"
)

// ─── GET /api/scan/:scanID/analysis ──────────────────────────────────────────

// handleGetAnalysis runs the analysis engine synchronously over the stored
// inspection record and returns the full result. This is the free preview the
// buyer sees before paying — the engine is deterministic and cheap, so there
// is no need to persist or cache the output.
//
// A scan with no saved progress is analysed as an empty record: the engine
// returns a walk-away verdict with a single missing-evidence risk.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	scanID, err := scanIDParam(r)
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid scan_id")
		return
	}

	scan, err := s.q.GetScanByID(r.Context(), scanID)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("get scan: %w", err))
		return
	}

	var progress analysis.ScanProgress
	if scan.Progress.Valid {
		if err := json.Unmarshal(scan.Progress.RawMessage, &progress); err != nil {
			s.respondInternalErr(w, r, fmt.Errorf("decode scan progress: %w", err))
			return
		}
	}

	respond(w, http.StatusOK, analysis.Analyse(progress))
}
