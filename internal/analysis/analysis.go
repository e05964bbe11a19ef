// Package analysis turns a raw in-person inspection record into a buyer
// report: a verdict, risk findings, evidence summary and negotiation
// positioning. The whole package is deterministic and side-effect free —
// same ScanProgress in, same Result out, no clock, no randomness, no I/O.
package analysis

import (
	"fmt"
	"math"
	"strings"
)

// Scoring weights. Completeness blends photo and checklist coverage with a
// small bonus for follow-up photos; confidence starts from a floor and is
// pushed around by completeness, unsure answers and substantiated concerns.
const (
	photoCoverageWeight = 55.0
	checkCoverageWeight = 40.0
	followUpBonus       = 5.0

	confidenceFloor    = 32.0
	completenessFactor = 0.68
	unsurePenalty      = 5.0
	notedConcernCredit = 1.5
)

// legacyCheckSynonyms maps superseded check IDs to their current form.
// Coverage counts both; default-filling must not fill both.
var legacyCheckSynonyms = map[string]string{
	"body-panels": "body-panels-paint",
	"tyres":       "tyre-wear",
}

// Analyse runs the full pipeline over one inspection record. The input is
// never mutated; missing maps and slices are treated as empty. An entirely
// empty record is a legitimate input and produces a deliberate low-confidence
// walk-away rather than an error.
func Analyse(progress ScanProgress) Result {
	rawChecks := progress.Checks
	if rawChecks == nil {
		rawChecks = map[string]CheckAnswer{}
	}

	imperfections := dedupeImperfections(progress.Imperfections)

	// Coverage. Photo coverage is membership of the required exterior steps;
	// check coverage iterates the literal key-check list, synonyms included,
	// over the same length as its denominator.
	photosBaseline := baselinePhotoCount(progress.Photos)
	photoCoverage := float64(photosBaseline) / float64(requiredPhotoCount)

	answeredKey := 0
	for _, id := range keyCheckIDs {
		if rawChecks[id].Value != "" {
			answeredKey++
		}
	}
	checkCoverage := float64(answeredKey) / float64(len(keyCheckIDs))

	bonus := 0.0
	if len(progress.FollowUpPhotos) > 0 {
		bonus = followUpBonus
	}
	completeness := int(math.Round(clamp(
		photoCoverage*photoCoverageWeight+checkCoverage*checkCoverageWeight+bonus,
		0, 100,
	)))

	// Answer tallies over the raw record only.
	concernCount, unsureCount, notedConcerns := 0, 0, 0
	for _, answer := range rawChecks {
		switch answer.Value {
		case CheckConcern:
			concernCount++
			if hasNote(answer.Note) {
				notedConcerns++
			}
		case CheckUnsure:
			unsureCount++
		}
	}

	confidence := int(math.Round(clamp(
		confidenceFloor+
			float64(completeness)*completenessFactor-
			float64(unsureCount)*unsurePenalty+
			float64(notedConcerns)*notedConcernCredit,
		0, 100,
	)))

	risks := buildRisks(buildRisksParams{
		rawChecks:              rawChecks,
		effectiveChecks:        defaultFillChecks(rawChecks),
		imperfections:          imperfections,
		photosCapturedBaseline: photosBaseline,
		requiredPhotoCount:     requiredPhotoCount,
	})

	evidence := buildEvidenceSummary(evidenceParams{
		rawChecks:              rawChecks,
		imperfections:          imperfections,
		photosCapturedBaseline: photosBaseline,
		followUpPhotos:         len(progress.FollowUpPhotos),
	})

	verdict := buildVerdict(buildVerdictParams{
		risks:             risks,
		concernCount:      concernCount,
		unsureCount:       unsureCount,
		completenessScore: completeness,
		confidenceScore:   confidence,
	})

	criticalCount := countBySeverity(risks, RiskCritical)
	moderateCount := countBySeverity(risks, RiskModerate)
	pressure := pressureScore(criticalCount, moderateCount, concernCount, unsureCount, confidence)

	return Result{
		Verdict:             verdict.verdict,
		VerdictReason:       verdict.verdictReason,
		ConfidenceScore:     confidence,
		CompletenessScore:   completeness,
		Risks:               risks,
		NegotiationLeverage: buildLeverage(risks),
		NegotiationPositioning: buildPositioning(
			pressure, concernCount, unsureCount, completeness,
		),
		WhyThisVerdict:             verdict.whyThisVerdict,
		WhyThisVerdictBullets:      verdict.whyThisVerdictBullets,
		RiskWeightingExplanation:   verdict.riskWeightingExplanation,
		RiskWeightingBullets:       verdict.riskWeightingBullets,
		EvidenceSummary:            evidence,
		UncertaintyFactors:         verdict.uncertaintyFactors,
		Counterfactuals:            verdict.counterfactuals,
		BuyerContextInterpretation: verdict.buyerContext,
		InferredSignals:            inferSignals(rawChecks),
		PriceGuidance:              inertPriceGuidance(),
	}
}

// baselinePhotoCount counts how many of the required exterior steps appear
// among the captured photos. Duplicates of one step count once.
func baselinePhotoCount(photos []Photo) int {
	captured := make(map[string]bool, len(photos))
	for _, p := range photos {
		captured[p.StepID] = true
	}
	n := 0
	for _, step := range requiredPhotoSteps {
		if captured[step] {
			n++
		}
	}
	return n
}

// defaultFillChecks copies the raw answers and fills every unanswered key
// check with an "ok". Synonym pairs fill once, under the current ID, and a
// legacy answer counts as answering its current counterpart. The raw record
// is left untouched.
func defaultFillChecks(rawChecks map[string]CheckAnswer) map[string]CheckAnswer {
	effective := make(map[string]CheckAnswer, len(rawChecks)+len(keyCheckIDs))
	for id, answer := range rawChecks {
		effective[id] = answer
	}

	answered := func(id string) bool {
		if effective[id].Value != "" {
			return true
		}
		for legacy, current := range legacyCheckSynonyms {
			if current == id && effective[legacy].Value != "" {
				return true
			}
		}
		return false
	}

	for _, id := range keyCheckIDs {
		if current, ok := legacyCheckSynonyms[id]; ok {
			id = current
		}
		if !answered(id) {
			effective[id] = CheckAnswer{Value: CheckOK}
		}
	}
	return effective
}

// ─── NEGOTIATION ─────────────────────────────────────────────────────────────

// Pressure-score weights: how hard each signal class pushes the suggested
// discount. Criticals dominate; low confidence adds up to 6 points.
const (
	pressureCriticalWeight = 4.8
	pressureModerateWeight = 2.2
	pressureConcernWeight  = 1.2
	pressureUnsureWeight   = 2.0
	pressureDoubtWeight    = 6.0
)

// pressureScore condenses the negative evidence into one number driving the
// negotiation bands.
func pressureScore(criticalCount, moderateCount, concernCount, unsureCount, confidence int) float64 {
	return float64(criticalCount)*pressureCriticalWeight +
		float64(moderateCount)*pressureModerateWeight +
		float64(concernCount)*pressureConcernWeight +
		float64(unsureCount)*pressureUnsureWeight +
		(float64(100-confidence)/100)*pressureDoubtWeight
}

// rangeFromScore maps the pressure score to the balanced AUD discount range.
// The high end always clears the low end by at least 150.
func rangeFromScore(score float64) (low, high int) {
	low = int(math.Round(clamp(120+score*90, 120, 2600)))
	high = int(math.Round(clamp(380+score*170, 380, 6200)))
	if high < low+150 {
		high = low + 150
	}
	return low, high
}

// bandCeiling caps every band so a pathological input can never suggest an
// absurd discount.
const bandCeiling = 999999

// bandLabel buckets the pressure score into a posture word.
func bandLabel(score float64) string {
	switch {
	case score < 3:
		return "Very light"
	case score < 7:
		return "Light"
	case score < 12:
		return "Moderate"
	case score < 18:
		return "Strong"
	default:
		return "Very strong"
	}
}

// scaleBand multiplies the balanced range into one stance, applying that
// stance's floors and the global ceiling.
func scaleBand(low, high int, mult float64, floorLow, floorHigh int) (int, int) {
	l := int(math.Round(float64(low) * mult))
	h := int(math.Round(float64(high) * mult))
	if l < floorLow {
		l = floorLow
	}
	if h < floorHigh {
		h = floorHigh
	}
	if l > bandCeiling {
		l = bandCeiling
	}
	if h > bandCeiling {
		h = bandCeiling
	}
	return l, h
}

// buildPositioning derives the three negotiation stances from the pressure
// score. Conservative scales the balanced range down, aggressive scales it
// up; all three share one rationale core with a stance-specific close.
func buildPositioning(score float64, concernCount, unsureCount, completeness int) NegotiationPositioning {
	low, high := rangeFromScore(score)
	label := bandLabel(score) + " positioning"

	core := positioningRationaleCore(concernCount, unsureCount, completeness)

	consLow, consHigh := scaleBand(low, high, 0.7, 100, 250)
	aggrLow, aggrHigh := scaleBand(low, high, 1.35, 150, 520)

	return NegotiationPositioning{
		Conservative: NegotiationBand{
			AudLow:    consLow,
			AudHigh:   consHigh,
			Label:     label,
			Rationale: core + " Open gently and keep the relationship easy — this stance trades discount for certainty of a deal.",
		},
		Balanced: NegotiationBand{
			AudLow:    low,
			AudHigh:   high,
			Label:     label,
			Rationale: core + " Anchor in the middle of this range and hold it — the evidence supports every dollar of it.",
		},
		Aggressive: NegotiationBand{
			AudLow:    aggrLow,
			AudHigh:   aggrHigh,
			Label:     label,
			Rationale: core + " Open at the top of this range and be ready to walk — the findings justify pressing hard.",
		},
	}
}

// positioningRationaleCore is the shared evidence framing inside every band's
// rationale: concerns, unsure answers, then coverage.
func positioningRationaleCore(concernCount, unsureCount, completeness int) string {
	parts := make([]string, 0, 3)

	switch {
	case concernCount == 1:
		parts = append(parts, "You flagged 1 concern, which is concrete leverage.")
	case concernCount > 1:
		parts = append(parts, fmt.Sprintf("You flagged %d concerns, which is concrete leverage.", concernCount))
	default:
		parts = append(parts, "With no flagged concerns, leverage comes from market comparison rather than defects.")
	}

	if unsureCount == 1 {
		parts = append(parts, "1 unsure answer adds uncertainty the price should absorb.")
	} else if unsureCount > 1 {
		parts = append(parts, fmt.Sprintf("%d unsure answers add uncertainty the price should absorb.", unsureCount))
	}

	switch {
	case completeness >= 75:
		parts = append(parts, "Your inspection was thorough, so these numbers stand on solid evidence.")
	case completeness >= 55:
		parts = append(parts, "Your inspection covered most of the car, so treat these numbers as a sound starting point.")
	default:
		parts = append(parts, "Your inspection was partial, so treat these numbers as rough guidance only.")
	}

	return strings.Join(parts, " ")
}

// buildLeverage groups the moderate-and-above findings into one
// evidence-based leverage list for the negotiation section.
func buildLeverage(risks []RiskItem) []LeverageGroup {
	points := make([]string, 0, len(risks))
	for _, r := range risks {
		if r.Severity == RiskInfo {
			continue
		}
		points = append(points, fmt.Sprintf("• %s: %s", r.Label, r.Explanation))
	}
	if len(points) == 0 {
		points = append(points, "• No recorded defects — confirm service history, ownership and any past repairs before agreeing a price.")
	}
	return []LeverageGroup{{
		Category: "Evidence-based leverage",
		Points:   points,
	}}
}

// ─── SIGNALS & PRICE ─────────────────────────────────────────────────────────

// Flag strengths for inferred signals.
const (
	adasSignalHigh = 50
	adasSignalLow  = 10
)

// inferSignals derives side-channel heuristics from the raw record. Currently
// one: an answered ADAS check that is anything other than "ok" suggests
// driver-assistance systems are present but disabled or faulty.
func inferSignals(rawChecks map[string]CheckAnswer) InferredSignals {
	answer := rawChecks["adas-systems"]
	if answer.Value != "" && answer.Value != CheckOK {
		return InferredSignals{AdasPresentButDisabled: true, Confidence: adasSignalHigh}
	}
	return InferredSignals{AdasPresentButDisabled: false, Confidence: adasSignalLow}
}

// inertPriceGuidance returns the disabled price-guidance block. Market-value
// estimation happens outside this package; the engine only carries the
// placeholder so the report shape is stable.
func inertPriceGuidance() PriceGuidance {
	return PriceGuidance{
		Enabled:    false,
		Rationale:  []string{},
		Disclaimer: "Price guidance is not available for this report. Verdict and negotiation ranges are based solely on your inspection evidence.",
	}
}
