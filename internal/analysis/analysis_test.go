package analysis_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/kerbscan/kerbscan-backend/internal/analysis"
)

// allKeyChecks is every checklist ID the coverage maths counts, current and
// legacy synonyms included, all answered "ok".
func allKeyChecks() map[string]analysis.CheckAnswer {
	ids := []string{
		"body-panels-paint", "body-panels", "headlights-condition",
		"windscreen-damage", "tyre-wear", "brakes-visible", "interior-smell",
		"interior-condition", "seat-adjustment", "windows-operation",
		"mirrors-operation", "seatbelts-trim", "aircon", "noise-hesitation",
		"steering", "adas-systems", "underbody-leaks",
	}
	checks := make(map[string]analysis.CheckAnswer, len(ids))
	for _, id := range ids {
		checks[id] = analysis.CheckAnswer{Value: analysis.CheckOK}
	}
	return checks
}

func allRequiredPhotos() []analysis.Photo {
	return []analysis.Photo{
		{StepID: "exterior-front"},
		{StepID: "exterior-rear"},
		{StepID: "exterior-driver-side"},
		{StepID: "exterior-passenger-side"},
	}
}

// ─── Reference scenarios ─────────────────────────────────────────────────────

// An entirely empty record scores zero completeness and floor confidence, and
// the confidence floor alone drives the verdict to walk-away. That corner is
// deliberate: an empty inspection is not evidence the car is fine.
func TestAnalyse_EmptyRecord(t *testing.T) {
	result := analysis.Analyse(analysis.ScanProgress{})

	if result.CompletenessScore != 0 {
		t.Errorf("CompletenessScore = %d, want 0", result.CompletenessScore)
	}
	if result.ConfidenceScore != 32 {
		t.Errorf("ConfidenceScore = %d, want 32", result.ConfidenceScore)
	}
	if result.Verdict != analysis.VerdictWalkAway {
		t.Errorf("Verdict = %q, want walk-away (confidence floor)", result.Verdict)
	}

	// The only risk is the missing baseline photos, at moderate.
	if len(result.Risks) != 1 {
		t.Fatalf("got %d risks, want 1: %+v", len(result.Risks), result.Risks)
	}
	if result.Risks[0].ID != "missing-baseline-photos" || result.Risks[0].Severity != analysis.RiskModerate {
		t.Errorf("risk = %+v, want moderate missing-baseline-photos", result.Risks[0])
	}
}

func TestAnalyse_FullPositiveRecord(t *testing.T) {
	result := analysis.Analyse(analysis.ScanProgress{
		Checks: allKeyChecks(),
		Photos: allRequiredPhotos(),
	})

	if result.CompletenessScore != 95 {
		t.Errorf("CompletenessScore = %d, want 95", result.CompletenessScore)
	}
	if result.ConfidenceScore != 97 {
		t.Errorf("ConfidenceScore = %d, want 97", result.ConfidenceScore)
	}
	if result.Verdict != analysis.VerdictProceed {
		t.Errorf("Verdict = %q, want proceed", result.Verdict)
	}
	if len(result.Risks) != 0 {
		t.Errorf("got risks %+v, want none", result.Risks)
	}
}

func TestAnalyse_SingleMajorImperfectionCautions(t *testing.T) {
	result := analysis.Analyse(analysis.ScanProgress{
		Checks: allKeyChecks(),
		Photos: allRequiredPhotos(),
		Imperfections: []analysis.Imperfection{
			{ID: "rust", Label: "Rust bubble", Severity: analysis.SeverityMajor, Location: "rear arch"},
		},
	})

	critical := 0
	for _, r := range result.Risks {
		if r.Severity == analysis.RiskCritical {
			critical++
		}
	}
	if critical != 1 {
		t.Fatalf("got %d critical risks, want exactly 1: %+v", critical, result.Risks)
	}
	if result.Verdict != analysis.VerdictCaution {
		t.Errorf("Verdict = %q, want caution (one critical is not walk-away)", result.Verdict)
	}
}

// ─── Invariants ──────────────────────────────────────────────────────────────

func TestAnalyse_Deterministic(t *testing.T) {
	progress := analysis.ScanProgress{
		Checks: map[string]analysis.CheckAnswer{
			"steering":  {Value: analysis.CheckConcern, Note: "knocks over bumps"},
			"tyre-wear": {Value: analysis.CheckUnsure},
			"aircon":    {Value: analysis.CheckOK},
		},
		Photos: []analysis.Photo{{StepID: "exterior-front"}, {StepID: "exterior-rear"}},
		Imperfections: []analysis.Imperfection{
			{ID: "dent", Label: "Dent", Severity: analysis.SeverityModerate, Location: "driver door"},
		},
		FollowUpPhotos: []analysis.FollowUpPhoto{{Note: "close-up of dent"}},
	}

	a, err := json.Marshal(analysis.Analyse(progress))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(analysis.Analyse(progress))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Error("two runs over the same record produced different output")
	}
}

func TestAnalyse_ScoreBounds(t *testing.T) {
	// Pathological record: every check unsure, nothing else. The unsure
	// penalty would push raw confidence far below zero without clamping.
	checks := allKeyChecks()
	for id := range checks {
		checks[id] = analysis.CheckAnswer{Value: analysis.CheckUnsure}
	}
	inputs := []analysis.ScanProgress{
		{},
		{Checks: checks},
		{Checks: allKeyChecks(), Photos: allRequiredPhotos(), FollowUpPhotos: []analysis.FollowUpPhoto{{}}},
	}
	for i, progress := range inputs {
		result := analysis.Analyse(progress)
		if result.CompletenessScore < 0 || result.CompletenessScore > 100 {
			t.Errorf("input %d: CompletenessScore %d out of bounds", i, result.CompletenessScore)
		}
		if result.ConfidenceScore < 0 || result.ConfidenceScore > 100 {
			t.Errorf("input %d: ConfidenceScore %d out of bounds", i, result.ConfidenceScore)
		}
	}
}

func TestAnalyse_BandOrdering(t *testing.T) {
	inputs := []analysis.ScanProgress{
		{},
		{Checks: allKeyChecks(), Photos: allRequiredPhotos()},
		{Checks: map[string]analysis.CheckAnswer{
			"steering":         {Value: analysis.CheckConcern, Note: "heavy knocking"},
			"noise-hesitation": {Value: analysis.CheckConcern, Note: "hesitates under load"},
			"underbody-leaks":  {Value: analysis.CheckConcern},
		}},
	}
	for i, progress := range inputs {
		pos := analysis.Analyse(progress).NegotiationPositioning
		for _, band := range []analysis.NegotiationBand{pos.Conservative, pos.Balanced, pos.Aggressive} {
			if band.AudHigh < band.AudLow {
				t.Errorf("input %d: band %q high %d < low %d", i, band.Label, band.AudHigh, band.AudLow)
			}
		}
		if !(pos.Aggressive.AudLow >= pos.Balanced.AudLow && pos.Balanced.AudLow >= pos.Conservative.AudLow) {
			t.Errorf("input %d: stance lows not monotonic: cons=%d bal=%d aggr=%d",
				i, pos.Conservative.AudLow, pos.Balanced.AudLow, pos.Aggressive.AudLow)
		}
	}
}

func TestAnalyse_WalkAwayOnTwoCriticals(t *testing.T) {
	result := analysis.Analyse(analysis.ScanProgress{
		Checks: map[string]analysis.CheckAnswer{
			"steering":         {Value: analysis.CheckConcern},
			"noise-hesitation": {Value: analysis.CheckConcern},
		},
		Photos: allRequiredPhotos(),
	})
	if result.Verdict != analysis.VerdictWalkAway {
		t.Errorf("Verdict = %q, want walk-away with two critical findings", result.Verdict)
	}
}

// ─── Signals & placeholders ──────────────────────────────────────────────────

func TestAnalyse_AdasSignal(t *testing.T) {
	tests := []struct {
		name           string
		answer         analysis.CheckAnswer
		wantFlag       bool
		wantConfidence int
	}{
		{"concern sets the flag", analysis.CheckAnswer{Value: analysis.CheckConcern}, true, 50},
		{"unsure sets the flag", analysis.CheckAnswer{Value: analysis.CheckUnsure}, true, 50},
		{"ok clears the flag", analysis.CheckAnswer{Value: analysis.CheckOK}, false, 10},
		{"unanswered clears the flag", analysis.CheckAnswer{}, false, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analysis.Analyse(analysis.ScanProgress{
				Checks: map[string]analysis.CheckAnswer{"adas-systems": tt.answer},
			})
			got := result.InferredSignals
			if got.AdasPresentButDisabled != tt.wantFlag || got.Confidence != tt.wantConfidence {
				t.Errorf("InferredSignals = %+v, want flag=%v confidence=%d",
					got, tt.wantFlag, tt.wantConfidence)
			}
		})
	}
}

func TestAnalyse_PriceGuidanceStaysInert(t *testing.T) {
	result := analysis.Analyse(analysis.ScanProgress{
		AskingPriceAud: 24990,
		Checks:         allKeyChecks(),
		Photos:         allRequiredPhotos(),
	})

	pg := result.PriceGuidance
	if pg.Enabled {
		t.Error("PriceGuidance.Enabled = true, want inert placeholder")
	}
	if pg.AskingPriceAud != nil || pg.EstimatedLowAud != nil || pg.EstimatedHighAud != nil {
		t.Errorf("price fields populated: %+v", pg)
	}
	if len(pg.Rationale) != 0 || pg.Disclaimer == "" {
		t.Errorf("rationale/disclaimer wrong: %+v", pg)
	}
}

func TestAnalyse_LeverageFallsBackWhenClean(t *testing.T) {
	result := analysis.Analyse(analysis.ScanProgress{
		Checks: allKeyChecks(),
		Photos: allRequiredPhotos(),
	})

	if len(result.NegotiationLeverage) != 1 {
		t.Fatalf("got %d leverage groups, want 1", len(result.NegotiationLeverage))
	}
	group := result.NegotiationLeverage[0]
	if group.Category != "Evidence-based leverage" {
		t.Errorf("category = %q", group.Category)
	}
	if len(group.Points) != 1 {
		t.Errorf("clean record should yield the single fallback point, got %v", group.Points)
	}
}

func TestAnalyse_InputNotMutated(t *testing.T) {
	progress := analysis.ScanProgress{
		Checks: map[string]analysis.CheckAnswer{
			"steering": {Value: analysis.CheckConcern, Note: "knocks"},
		},
		Imperfections: []analysis.Imperfection{
			{ID: "chip", Label: "Stone chip", Severity: analysis.SeverityMinor, Location: "bonnet"},
		},
	}
	var snapshot analysis.ScanProgress
	raw, _ := json.Marshal(progress)
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	analysis.Analyse(progress)

	if !reflect.DeepEqual(progress, snapshot) {
		t.Errorf("input mutated:\n before %+v\n after  %+v", snapshot, progress)
	}
}
