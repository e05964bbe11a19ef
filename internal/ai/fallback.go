package ai

import (
	"context"
	"fmt"
	"log/slog"
)

// fallbackValuer wraps two Valuer implementations. It calls the primary first;
// if that returns an error it logs the failure and tries the secondary.
// This gives you DeepSeek as the default with Anthropic as the safety net
// (or vice versa — the choice is made in main.go).
type fallbackValuer struct {
	primary   Valuer
	secondary Valuer
	logger    *slog.Logger
}

// NewFallbackValuer returns a Valuer that calls primary and, on failure,
// falls back to secondary. Either argument may be nil — if primary is nil
// it goes straight to secondary; if secondary is nil and primary fails, the
// primary error is returned directly.
func NewFallbackValuer(primary, secondary Valuer, logger *slog.Logger) Valuer {
	return &fallbackValuer{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// EstimateMarketValue tries the primary Valuer. If it fails and a secondary is
// configured, it logs the primary error and tries the secondary.
func (f *fallbackValuer) EstimateMarketValue(ctx context.Context, facts VehicleFacts) (Estimate, error) {
	if f.primary != nil {
		result, err := f.primary.EstimateMarketValue(ctx, facts)
		if err == nil {
			return result, nil
		}
		f.logger.Warn("ai: primary valuer failed, trying secondary",
			"error", err,
			"make", facts.Make,
			"model", facts.Model,
		)
		if f.secondary == nil {
			return Estimate{}, fmt.Errorf("ai: primary failed and no secondary configured: %w", err)
		}
	}

	return f.secondary.EstimateMarketValue(ctx, facts)
}
