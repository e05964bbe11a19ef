package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const scanColumns = `id, anon_token, vehicle_make, vehicle_model, vehicle_year,
	odometer_km, vin, asking_price_aud, email, progress, stripe_customer_id,
	stripe_payment_intent, paid, created_at, updated_at`

func scanScanRow(row *sql.Row) (Scan, error) {
	var s Scan
	err := row.Scan(
		&s.ID,
		&s.AnonToken,
		&s.VehicleMake,
		&s.VehicleModel,
		&s.VehicleYear,
		&s.OdometerKm,
		&s.Vin,
		&s.AskingPriceAud,
		&s.Email,
		&s.Progress,
		&s.StripeCustomerID,
		&s.StripePaymentIntent,
		&s.Paid,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

const createScan = `
INSERT INTO scans (anon_token)
VALUES ($1)
RETURNING ` + scanColumns

func (q *Queries) CreateScan(ctx context.Context, anonToken string) (Scan, error) {
	return scanScanRow(q.db.QueryRowContext(ctx, createScan, anonToken))
}

const getScanByID = `
SELECT ` + scanColumns + `
FROM scans
WHERE id = $1`

func (q *Queries) GetScanByID(ctx context.Context, id uuid.UUID) (Scan, error) {
	return scanScanRow(q.db.QueryRowContext(ctx, getScanByID, id))
}

const getScanByAnonToken = `
SELECT ` + scanColumns + `
FROM scans
WHERE anon_token = $1`

func (q *Queries) GetScanByAnonToken(ctx context.Context, anonToken string) (Scan, error) {
	return scanScanRow(q.db.QueryRowContext(ctx, getScanByAnonToken, anonToken))
}

const updateScanVehicle = `
UPDATE scans
SET vehicle_make     = $2,
    vehicle_model    = $3,
    vehicle_year     = $4,
    odometer_km      = $5,
    vin              = $6,
    asking_price_aud = $7,
    updated_at       = now()
WHERE id = $1
RETURNING ` + scanColumns

type UpdateScanVehicleParams struct {
	ID             uuid.UUID
	VehicleMake    sql.NullString
	VehicleModel   sql.NullString
	VehicleYear    sql.NullInt16
	OdometerKm     sql.NullInt32
	Vin            sql.NullString
	AskingPriceAud sql.NullInt64
}

func (q *Queries) UpdateScanVehicle(ctx context.Context, arg UpdateScanVehicleParams) (Scan, error) {
	return scanScanRow(q.db.QueryRowContext(ctx, updateScanVehicle,
		arg.ID,
		arg.VehicleMake,
		arg.VehicleModel,
		arg.VehicleYear,
		arg.OdometerKm,
		arg.Vin,
		arg.AskingPriceAud,
	))
}

const upsertScanProgress = `
UPDATE scans
SET progress   = $2,
    updated_at = now()
WHERE id = $1
RETURNING ` + scanColumns

type UpsertScanProgressParams struct {
	ID       uuid.UUID
	Progress pqtype.NullRawMessage
}

func (q *Queries) UpsertScanProgress(ctx context.Context, arg UpsertScanProgressParams) (Scan, error) {
	return scanScanRow(q.db.QueryRowContext(ctx, upsertScanProgress, arg.ID, arg.Progress))
}

const setScanEmail = `
UPDATE scans
SET email      = $2,
    updated_at = now()
WHERE id = $1
RETURNING ` + scanColumns

type SetScanEmailParams struct {
	ID    uuid.UUID
	Email sql.NullString
}

func (q *Queries) SetScanEmail(ctx context.Context, arg SetScanEmailParams) (Scan, error) {
	return scanScanRow(q.db.QueryRowContext(ctx, setScanEmail, arg.ID, arg.Email))
}

const setScanPaymentIntent = `
UPDATE scans
SET stripe_payment_intent = $2,
    stripe_customer_id    = $3,
    email                 = COALESCE($4, email),
    updated_at            = now()
WHERE id = $1
RETURNING ` + scanColumns

type SetScanPaymentIntentParams struct {
	ID                  uuid.UUID
	StripePaymentIntent sql.NullString
	StripeCustomerID    sql.NullString
	Email               sql.NullString
}

func (q *Queries) SetScanPaymentIntent(ctx context.Context, arg SetScanPaymentIntentParams) (Scan, error) {
	return scanScanRow(q.db.QueryRowContext(ctx, setScanPaymentIntent,
		arg.ID,
		arg.StripePaymentIntent,
		arg.StripeCustomerID,
		arg.Email,
	))
}

const markScanPaid = `
UPDATE scans
SET paid       = TRUE,
    updated_at = now()
WHERE stripe_payment_intent = $1
RETURNING ` + scanColumns

func (q *Queries) MarkScanPaid(ctx context.Context, stripePaymentIntent sql.NullString) (Scan, error) {
	return scanScanRow(q.db.QueryRowContext(ctx, markScanPaid, stripePaymentIntent))
}
