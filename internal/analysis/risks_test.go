package analysis

import (
	"strings"
	"testing"
)

func risksFor(t *testing.T, rawChecks map[string]CheckAnswer, imps []Imperfection, photos int) []RiskItem {
	t.Helper()
	return buildRisks(buildRisksParams{
		rawChecks:              rawChecks,
		effectiveChecks:        defaultFillChecks(rawChecks),
		imperfections:          dedupeImperfections(imps),
		photosCapturedBaseline: photos,
		requiredPhotoCount:     requiredPhotoCount,
	})
}

func findRisk(risks []RiskItem, id string) (RiskItem, bool) {
	for _, r := range risks {
		if r.ID == id {
			return r, true
		}
	}
	return RiskItem{}, false
}

// ─── Note-driven escalation ──────────────────────────────────────────────────

func TestBuildRisks_AirconEscalatesOnNote(t *testing.T) {
	tests := []struct {
		name         string
		note         string
		wantSeverity RiskSeverity
	}{
		{"failure note escalates", "not cooling at all", RiskCritical},
		{"weak note stays moderate", "a bit weak", RiskModerate},
		{"compressor note escalates", "Compressor rattling loudly", RiskCritical},
		{"no note stays moderate", "", RiskModerate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risks := risksFor(t, map[string]CheckAnswer{
				"aircon": {Value: CheckConcern, Note: tt.note},
			}, nil, requiredPhotoCount)

			r, ok := findRisk(risks, "aircon")
			if !ok {
				t.Fatalf("no aircon risk in %+v", risks)
			}
			if r.Severity != tt.wantSeverity {
				t.Errorf("severity = %q, want %q", r.Severity, tt.wantSeverity)
			}
			// A substantial note always becomes the explanation, verbatim.
			if hasNote(tt.note) && r.Explanation != collapseWhitespace(tt.note) {
				t.Errorf("explanation = %q, want the buyer's note %q", r.Explanation, tt.note)
			}
		})
	}
}

func TestBuildRisks_WindscreenCrackEscalates(t *testing.T) {
	risks := risksFor(t, map[string]CheckAnswer{
		"windscreen-damage": {Value: CheckConcern, Note: "long crack across the driver side"},
	}, nil, requiredPhotoCount)

	r, ok := findRisk(risks, "windscreen-damage")
	if !ok {
		t.Fatalf("no windscreen risk in %+v", risks)
	}
	if r.Severity != RiskCritical {
		t.Errorf("severity = %q, want critical", r.Severity)
	}
}

func TestBuildRisks_KeywordMatchIgnoresCase(t *testing.T) {
	risks := risksFor(t, map[string]CheckAnswer{
		"tyre-wear": {Value: CheckConcern, Note: "Rear tyres are BALD."},
	}, nil, requiredPhotoCount)

	r, _ := findRisk(risks, "tyre-wear")
	if r.Severity != RiskCritical {
		t.Errorf("severity = %q, want critical", r.Severity)
	}
}

// ─── Default-critical checks ─────────────────────────────────────────────────

func TestBuildRisks_CriticalByDefaultChecks(t *testing.T) {
	for _, id := range []string{"noise-hesitation", "steering", "underbody-leaks"} {
		t.Run(id, func(t *testing.T) {
			risks := risksFor(t, map[string]CheckAnswer{
				id: {Value: CheckConcern},
			}, nil, requiredPhotoCount)

			r, ok := findRisk(risks, id)
			if !ok {
				t.Fatalf("no %s risk in %+v", id, risks)
			}
			if r.Severity != RiskCritical {
				t.Errorf("severity = %q, want critical", r.Severity)
			}
		})
	}
}

// ─── Check answers other than concern ────────────────────────────────────────

func TestBuildRisks_OKAndUnsureProduceNoCheckRisk(t *testing.T) {
	risks := risksFor(t, map[string]CheckAnswer{
		"steering": {Value: CheckOK},
		"aircon":   {Value: CheckUnsure, Note: "could not test, cold morning"},
	}, nil, requiredPhotoCount)

	if _, ok := findRisk(risks, "steering"); ok {
		t.Error("ok answer produced a risk")
	}
	if _, ok := findRisk(risks, "aircon"); ok {
		t.Error("unsure answer produced a risk")
	}
	if len(risks) != 0 {
		t.Errorf("expected no risks, got %+v", risks)
	}
}

// ─── Imperfections ───────────────────────────────────────────────────────────

func TestBuildRisks_ImperfectionSeverityMapping(t *testing.T) {
	imps := []Imperfection{
		{ID: "rust", Label: "Rust bubble", Severity: SeverityMajor, Note: "rust around the rear arch"},
		{ID: "dent", Label: "Car park dent", Severity: SeverityModerate},
		{ID: "chip", Label: "Stone chip", Severity: SeverityMinor},
	}
	risks := risksFor(t, nil, imps, requiredPhotoCount)

	r, ok := findRisk(risks, "imperfection-rust")
	if !ok || r.Severity != RiskCritical {
		t.Errorf("major imperfection risk = %+v, want critical", r)
	}
	if r.Explanation != "rust around the rear arch" {
		t.Errorf("explanation = %q, want the buyer's note", r.Explanation)
	}

	if r, ok := findRisk(risks, "imperfection-dent"); !ok || r.Severity != RiskModerate {
		t.Errorf("moderate imperfection risk = %+v, want moderate", r)
	}

	// Minor imperfections show up in evidence, never as risks.
	if _, ok := findRisk(risks, "imperfection-chip"); ok {
		t.Error("minor imperfection produced a risk")
	}
}

// ─── Baseline photos ─────────────────────────────────────────────────────────

func TestBuildRisks_MissingBaselinePhotos(t *testing.T) {
	risks := risksFor(t, nil, nil, 2)

	r, ok := findRisk(risks, "missing-baseline-photos")
	if !ok {
		t.Fatalf("no missing-photos risk in %+v", risks)
	}
	if r.Severity != RiskModerate {
		t.Errorf("severity = %q, want moderate", r.Severity)
	}
	if !strings.Contains(r.Explanation, "2 of 4") {
		t.Errorf("explanation = %q, want the 2-of-4 count in it", r.Explanation)
	}

	if risks := risksFor(t, nil, nil, requiredPhotoCount); len(risks) != 0 {
		t.Errorf("full photo coverage still produced risks: %+v", risks)
	}
}

// ─── Ordering ────────────────────────────────────────────────────────────────

func TestBuildRisks_DeterministicOrder(t *testing.T) {
	rawChecks := map[string]CheckAnswer{
		"steering":  {Value: CheckConcern},
		"tyre-wear": {Value: CheckConcern},
	}
	imps := []Imperfection{{ID: "dent", Label: "Dent", Severity: SeverityModerate}}

	risks := risksFor(t, rawChecks, imps, 0)

	wantIDs := []string{"missing-baseline-photos", "imperfection-dent", "tyre-wear", "steering"}
	if len(risks) != len(wantIDs) {
		t.Fatalf("got %d risks, want %d: %+v", len(risks), len(wantIDs), risks)
	}
	for i, id := range wantIDs {
		if risks[i].ID != id {
			t.Errorf("risks[%d].ID = %q, want %q", i, risks[i].ID, id)
		}
	}
}
