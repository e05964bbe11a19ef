package api

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/kerbscan/kerbscan-backend/internal/db"
)

// ─── POST /api/scan ───────────────────────────────────────────────────────────

type createScanRequest struct {
	// Vehicle fields are optional at creation — the buyer fills them in Step 1.
	Make           string `json:"make"`
	Model          string `json:"model"`
	Year           int16  `json:"year"`
	OdometerKm     int32  `json:"odometer_km"`
	Vin            string `json:"vin"`
	AskingPriceAud int64  `json:"asking_price_aud"`
}

type createScanResponse struct {
	ScanID    string `json:"scan_id"`
	AnonToken string `json:"anon_token"`
}

// handleCreateScan creates an anonymous scan for a new visitor.
// Called once when the inspection flow first loads.
//
// The anon_token is returned to the browser and stored in sessionStorage.
// It is sent as X-Anon-Token on all subsequent scan-scoped requests.
func (s *Server) handleCreateScan(w http.ResponseWriter, r *http.Request) {
	var req createScanRequest
	if !decode(w, r, &req) {
		return
	}

	// Generate a cryptographically random token. 32 bytes → 64 hex chars.
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("generate anon token: %w", err))
		return
	}
	anonToken := hex.EncodeToString(tokenBytes)

	scan, err := s.q.CreateScan(r.Context(), anonToken)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("create scan: %w", err))
		return
	}

	// If vehicle details were provided at creation time, persist them now.
	if req.Make != "" || req.Model != "" || req.Year != 0 || req.OdometerKm != 0 || req.Vin != "" || req.AskingPriceAud != 0 {
		_, err = s.q.UpdateScanVehicle(r.Context(), vehicleParams(scan.ID, req))
		if err != nil {
			// Non-fatal — the vehicle can be set via PATCH later.
			s.logger.Warn("create scan: failed to set initial vehicle",
				"scan_id", scan.ID,
				"error", err,
				logField(r),
			)
		}
	}

	respond(w, http.StatusCreated, createScanResponse{
		ScanID:    scan.ID.String(),
		AnonToken: anonToken,
	})
}

// ─── PATCH /api/scan/:scanID/vehicle ──────────────────────────────────────────

type updateVehicleRequest struct {
	Make           string `json:"make"`
	Model          string `json:"model"`
	Year           int16  `json:"year"`
	OdometerKm     int32  `json:"odometer_km"`
	Vin            string `json:"vin"`
	AskingPriceAud int64  `json:"asking_price_aud"`
}

type updateVehicleResponse struct {
	ScanID         string `json:"scan_id"`
	Make           string `json:"make"`
	Model          string `json:"model"`
	Year           int16  `json:"year"`
	OdometerKm     int32  `json:"odometer_km"`
	Vin            string `json:"vin"`
	AskingPriceAud int64  `json:"asking_price_aud"`
}

// handleUpdateVehicle persists the vehicle details from Step 1.
// The route is protected by requireAnonToken middleware, so scan_id in the
// URL is already verified to belong to the token sender.
func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	scanID, err := scanIDParam(r)
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid scan_id")
		return
	}

	var req updateVehicleRequest
	if !decode(w, r, &req) {
		return
	}

	if req.Year != 0 && (req.Year < 1950 || req.Year > 2100) {
		respondErr(w, http.StatusBadRequest, "year out of range")
		return
	}
	if req.OdometerKm < 0 {
		respondErr(w, http.StatusBadRequest, "odometer_km must not be negative")
		return
	}
	if req.AskingPriceAud < 0 {
		respondErr(w, http.StatusBadRequest, "asking_price_aud must not be negative")
		return
	}

	scan, err := s.q.UpdateScanVehicle(r.Context(), vehicleParams(scanID, createScanRequest(req)))
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("update vehicle: %w", err))
		return
	}

	respond(w, http.StatusOK, updateVehicleResponse{
		ScanID:         scan.ID.String(),
		Make:           scan.VehicleMake.String,
		Model:          scan.VehicleModel.String,
		Year:           scan.VehicleYear.Int16,
		OdometerKm:     scan.OdometerKm.Int32,
		Vin:            scan.Vin.String,
		AskingPriceAud: scan.AskingPriceAud.Int64,
	})
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

// vehicleParams maps the request fields onto the sqlc params, turning zero
// values into NULLs so an omitted field clears nothing it shouldn't.
func vehicleParams(scanID uuid.UUID, req createScanRequest) db.UpdateScanVehicleParams {
	return db.UpdateScanVehicleParams{
		ID:             scanID,
		VehicleMake:    nullString(req.Make),
		VehicleModel:   nullString(req.Model),
		VehicleYear:    sql.NullInt16{Int16: req.Year, Valid: req.Year != 0},
		OdometerKm:     sql.NullInt32{Int32: req.OdometerKm, Valid: req.OdometerKm != 0},
		Vin:            nullString(req.Vin),
		AskingPriceAud: sql.NullInt64{Int64: req.AskingPriceAud, Valid: req.AskingPriceAud != 0},
	}
}

// nullString converts a Go string to sql.NullString. Empty string → NULL.
func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
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
