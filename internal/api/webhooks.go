package api

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/kerbscan/kerbscan-backend/internal/db"
	"github.com/kerbscan/kerbscan-backend/internal/email"
	"github.com/kerbscan/kerbscan-backend/internal/store"
	stripeinternal "github.com/kerbscan/kerbscan-backend/internal/stripe"
)

// ─── POST /api/webhooks/stripe ────────────────────────────────────────────────

// handleStripeWebhook is the entry point for all Stripe webhook deliveries.
//
// Stripe delivers events at-least-once and may retry on non-2xx responses.
// The handler must be idempotent: every operation it performs uses
// insert-or-ignore patterns so replays are safe.
//
// The only event we act on is:
//   - payment_intent.succeeded → initialise report + enqueue generation job
//
// payment_intent.payment_failed and charge.refunded are logged for support
// purposes but do not change scan state — an unpaid scan simply never gets a
// report, and refunds are handled manually.
func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	// ── 1. Read and size-limit the body ───────────────────────────────────────
	// Stripe recommends reading the raw body before any other processing so
	// the signature check runs against the exact bytes Stripe signed.
	r.Body = http.MaxBytesReader(w, r.Body, 65536) // 64 KB — generous for any Stripe event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondErr(w, http.StatusBadRequest, "could not read request body")
		return
	}

	// ── 2. Verify the Stripe-Signature header ─────────────────────────────────
	sig := r.Header.Get("Stripe-Signature")
	event, err := s.stripe.VerifyWebhook(payload, sig, s.cfg.StripeWebhookSecret)
	if err != nil {
		s.logger.Warn("webhook: invalid signature", "error", err, logField(r))
		respondErr(w, http.StatusBadRequest, "invalid webhook signature")
		return
	}

	// ── 3. Idempotency: record the event, skip if already seen ────────────────
	// InsertStripeEvent uses ON CONFLICT DO NOTHING. When a duplicate event_id
	// is received Postgres returns zero rows, which surfaces as sql.ErrNoRows —
	// not a nil struct. We treat that as an idempotent success and ack
	// immediately so Stripe stops retrying.
	_, err = s.q.InsertStripeEvent(r.Context(), stripeinternal.ToInsertParams(event, payload))
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Debug("webhook: duplicate event, skipping", "event_id", event.ID, logField(r))
		w.WriteHeader(http.StatusOK)
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("insert stripe event: %w", err))
		return
	}

	// ── 4. Dispatch by event type ─────────────────────────────────────────────
	var handlerErr error

	switch event.Type {
	case "payment_intent.succeeded":
		handlerErr = s.onPaymentSucceeded(r, event)

	case "payment_intent.payment_failed":
		s.logger.Info("webhook: payment failed", "event_id", event.ID, logField(r))

	case "charge.refunded":
		s.onChargeRefunded(r, event)

	default:
		// Unknown event type — ack immediately so Stripe stops retrying.
		s.logger.Debug("webhook: unhandled event type", "type", event.Type, logField(r))
	}

	// ── 5. Mark event processed (or failed) ───────────────────────────────────
	if handlerErr != nil {
		s.logger.Error("webhook: handler error",
			"event_id", event.ID,
			"type", event.Type,
			"error", handlerErr,
			logField(r),
		)
		// Record the failure in stripe_events for later investigation.
		_ = s.q.MarkStripeEventFailed(r.Context(), stripeinternal.ToMarkFailedParams(event.ID, handlerErr))
		// Return 500 so Stripe retries delivery.
		respondErr(w, http.StatusInternalServerError, "webhook handler failed")
		return
	}

	_ = s.q.MarkStripeEventProcessed(r.Context(), event.ID)
	w.WriteHeader(http.StatusOK)
}

// ─── EVENT HANDLERS ───────────────────────────────────────────────────────────

func (s *Server) onPaymentSucceeded(r *http.Request, event stripeinternal.Event) error {
	piID, err := stripeinternal.ExtractPaymentIntentID(event)
	if err != nil {
		return fmt.Errorf("onPaymentSucceeded: extract PI id: %w", err)
	}

	// InitialiseReport atomically marks the scan paid and creates the report
	// row. ErrReportAlreadyExists means a duplicate delivery — still a success.
	report, err := s.store.InitialiseReport(r.Context(), piID)
	if errors.Is(err, store.ErrReportAlreadyExists) {
		s.logger.Debug("webhook: report already exists, re-enqueueing if not ready",
			"report_id", report.ID,
			logField(r),
		)
		// Re-enqueue if the report is not yet in a terminal state — handles the
		// case where the worker crashed mid-processing.
		if report.Status != db.ReportStatusReady && report.Status != db.ReportStatusError {
			_ = s.worker.Enqueue(r.Context(), report.ID)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("onPaymentSucceeded: initialise report: %w", err)
	}

	// Send the receipt email immediately — don't wait for the report.
	scan, dbErr := s.q.GetScanByID(r.Context(), report.ScanID)
	if dbErr == nil && scan.Email.Valid {
		receiptErr := s.mailer.SendReceipt(r.Context(), email.ReceiptParams{
			To:          scan.Email.String,
			Vehicle:     vehicleLabel(scan),
			AmountCents: s.cfg.ReportPriceCents,
			Currency:    "aud",
		})
		s.logAndIgnoreEmailErr(r, receiptErr, "send receipt")
	}

	// Enqueue the generation job. The worker handles errors and retries.
	if err := s.worker.Enqueue(r.Context(), report.ID); err != nil {
		// Enqueueing failed (queue full) — the poller will pick it up.
		s.logger.Warn("webhook: enqueue failed, will be picked up by poller",
			"report_id", report.ID,
			"error", err,
			logField(r),
		)
	}

	return nil
}

// onChargeRefunded logs the refund with its PaymentIntent so support can match
// it to a scan. Report access is not revoked on refund.
func (s *Server) onChargeRefunded(r *http.Request, event stripeinternal.Event) {
	piID, err := stripeinternal.ExtractPIFromCharge(event)
	if err != nil {
		s.logger.Warn("webhook: charge.refunded without PI id", "event_id", event.ID, logField(r))
		return
	}

	s.logger.Info("webhook: charge refunded",
		"pi_id", piID,
		"event_id", event.ID,
		logField(r),
	)
}
