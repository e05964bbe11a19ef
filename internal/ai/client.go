// Package ai defines the interface for AI-assisted market value estimation
// and provides Anthropic- and DeepSeek-backed implementations.
package ai

import (
	"context"
)

// VehicleFacts is everything the estimator gets to work with: the vehicle
// identity from the scan row plus a condensed view of the inspection outcome.
// No free-text buyer notes are sent — only the derived findings.
type VehicleFacts struct {
	Make           string
	Model          string
	Year           int
	OdometerKm     int
	AskingPriceAud int64

	// Verdict and Findings summarise the analysis result so the estimate can
	// discount for condition, not just model and age.
	Verdict  string
	Findings []string // risk labels, most severe first
}

// Estimate is the structured output from a successful EstimateMarketValue
// call. LowAud/HighAud are whole Australian dollars.
type Estimate struct {
	LowAud  int64
	HighAud int64

	// Rationale is a 1–3 sentence plain-English justification, suitable for
	// the report's market-value section.
	Rationale string
}

// Valuer is the interface the worker uses for market value estimation.
// Concrete implementations live in anthropic.go and deepseek.go.
// Tests inject a stub that returns canned responses.
type Valuer interface {
	// EstimateMarketValue returns an estimated private-sale price range for
	// the vehicle as inspected.
	//
	// Implementations must be safe to call concurrently.
	// A non-nil error means the call failed; the worker ships the report
	// without a market range rather than failing the report.
	EstimateMarketValue(ctx context.Context, facts VehicleFacts) (Estimate, error)
}
