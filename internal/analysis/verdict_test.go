package analysis

import (
	"strings"
	"testing"
)

// ─── Classification ──────────────────────────────────────────────────────────

func TestClassifyVerdict(t *testing.T) {
	tests := []struct {
		name       string
		critical   int
		moderate   int
		confidence int
		want       Verdict
	}{
		{"clean record", 0, 0, 90, VerdictProceed},
		{"one moderate", 0, 1, 80, VerdictProceed},
		{"two moderates", 0, 2, 80, VerdictCaution},
		{"one critical", 1, 0, 80, VerdictCaution},
		{"two criticals", 2, 0, 80, VerdictWalkAway},
		{"confidence just below floor", 0, 0, 34, VerdictWalkAway},
		{"confidence at floor", 0, 0, 35, VerdictProceed},
		{"low confidence beats clean record", 0, 0, 10, VerdictWalkAway},
		{"critical plus low confidence", 1, 0, 20, VerdictWalkAway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyVerdict(tt.critical, tt.moderate, tt.confidence)
			if got != tt.want {
				t.Errorf("classifyVerdict(%d, %d, %d) = %q, want %q",
					tt.critical, tt.moderate, tt.confidence, got, tt.want)
			}
		})
	}
}

// Adding critical findings can only ever move the verdict toward walk-away.
func TestClassifyVerdict_MonotonicInCriticals(t *testing.T) {
	rank := map[Verdict]int{VerdictProceed: 0, VerdictCaution: 1, VerdictWalkAway: 2}

	for confidence := 0; confidence <= 100; confidence += 10 {
		for moderate := 0; moderate <= 4; moderate++ {
			prev := -1
			for critical := 0; critical <= 4; critical++ {
				got := rank[classifyVerdict(critical, moderate, confidence)]
				if got < prev {
					t.Fatalf("verdict improved when criticals rose: critical=%d moderate=%d confidence=%d",
						critical, moderate, confidence)
				}
				prev = got
			}
		}
	}
}

// ─── Explanatory text ────────────────────────────────────────────────────────

func TestBuildVerdict_BulletShape(t *testing.T) {
	pack := buildVerdict(buildVerdictParams{
		risks: []RiskItem{
			{ID: "steering", Severity: RiskCritical},
			{ID: "aircon", Severity: RiskModerate},
		},
		concernCount:      2,
		unsureCount:       1,
		completenessScore: 70,
		confidenceScore:   62,
	})

	if len(pack.whyThisVerdictBullets) != 4 {
		t.Errorf("got %d why bullets, want 4: %v", len(pack.whyThisVerdictBullets), pack.whyThisVerdictBullets)
	}
	if len(pack.riskWeightingBullets) != 6 {
		t.Errorf("got %d weighting bullets, want 6: %v", len(pack.riskWeightingBullets), pack.riskWeightingBullets)
	}
	if pack.whyThisVerdict != strings.Join(pack.whyThisVerdictBullets, " ") {
		t.Error("whyThisVerdict is not the joined bullets")
	}
	if pack.riskWeightingExplanation != strings.Join(pack.riskWeightingBullets, " ") {
		t.Error("riskWeightingExplanation is not the joined bullets")
	}
	if pack.verdictReason == "" {
		t.Error("verdictReason is empty")
	}
}

// ─── Uncertainty factors ─────────────────────────────────────────────────────

func TestBuildVerdict_UncertaintyFactors(t *testing.T) {
	withUnsure := buildVerdict(buildVerdictParams{
		unsureCount: 3, completenessScore: 80, confidenceScore: 70,
	})
	if len(withUnsure.uncertaintyFactors) != 1 {
		t.Fatalf("got %d factors, want 1: %v", len(withUnsure.uncertaintyFactors), withUnsure.uncertaintyFactors)
	}
	f := withUnsure.uncertaintyFactors[0]
	if f.Impact != "moderate" || f.Source != "user_marked_unsure" {
		t.Errorf("factor = %+v, want impact=moderate source=user_marked_unsure", f)
	}
	if f.Label != "3 items marked unsure" {
		t.Errorf("label = %q", f.Label)
	}

	single := buildVerdict(buildVerdictParams{
		unsureCount: 1, completenessScore: 80, confidenceScore: 70,
	})
	if single.uncertaintyFactors[0].Label != "1 item marked unsure" {
		t.Errorf("singular label = %q", single.uncertaintyFactors[0].Label)
	}

	none := buildVerdict(buildVerdictParams{completenessScore: 80, confidenceScore: 70})
	if len(none.uncertaintyFactors) != 0 {
		t.Errorf("got %v, want no factors without unsure answers", none.uncertaintyFactors)
	}
}

// ─── Counterfactuals ─────────────────────────────────────────────────────────

func TestBuildVerdict_CounterfactualOrder(t *testing.T) {
	pack := buildVerdict(buildVerdictParams{
		risks:             []RiskItem{{ID: "steering", Severity: RiskCritical}},
		unsureCount:       2,
		completenessScore: 70,
		confidenceScore:   60,
	})
	if pack.verdict != VerdictCaution {
		t.Fatalf("verdict = %q, want caution", pack.verdict)
	}
	if len(pack.counterfactuals) != 3 {
		t.Fatalf("got %d counterfactuals: %v", len(pack.counterfactuals), pack.counterfactuals)
	}
	if !strings.Contains(pack.counterfactuals[0], "unsure") {
		t.Errorf("first counterfactual should address unsure answers: %q", pack.counterfactuals[0])
	}
	if !strings.Contains(pack.counterfactuals[len(pack.counterfactuals)-1], "test drive") {
		t.Errorf("last counterfactual should be the test-drive one: %q",
			pack.counterfactuals[len(pack.counterfactuals)-1])
	}

	proceed := buildVerdict(buildVerdictParams{completenessScore: 90, confidenceScore: 90})
	if len(proceed.counterfactuals) != 1 || !strings.Contains(proceed.counterfactuals[0], "test drive") {
		t.Errorf("proceed with no unsure should carry only the test-drive counterfactual: %v",
			proceed.counterfactuals)
	}
}

// ─── Buyer context ───────────────────────────────────────────────────────────

func TestBuildVerdict_BuyerContextCoversAllTypes(t *testing.T) {
	for _, params := range []buildVerdictParams{
		{completenessScore: 90, confidenceScore: 90}, // proceed
		{risks: []RiskItem{{Severity: RiskCritical}}, completenessScore: 70, confidenceScore: 60},  // caution
		{risks: []RiskItem{{Severity: RiskCritical}, {Severity: RiskCritical}}, confidenceScore: 60}, // walk-away
	} {
		pack := buildVerdict(params)
		if len(pack.buyerContext) != 3 {
			t.Fatalf("verdict %q: got %d guidance entries, want 3", pack.verdict, len(pack.buyerContext))
		}
		wantTypes := []string{"risk-averse", "practical", "short-term"}
		for i, g := range pack.buyerContext {
			if g.BuyerType != wantTypes[i] {
				t.Errorf("verdict %q: buyerContext[%d].BuyerType = %q, want %q",
					pack.verdict, i, g.BuyerType, wantTypes[i])
			}
			if g.Guidance == "" {
				t.Errorf("verdict %q: empty guidance for %q", pack.verdict, g.BuyerType)
			}
		}
	}
}
