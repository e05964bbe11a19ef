package analysis

import (
	"fmt"
	"strings"
)

// Verdict thresholds. These are fixed product constants, not configuration:
// two critical findings (or a confidence floor breach) always mean walk away.
const (
	walkAwayCriticalCount = 2
	walkAwayConfidence    = 35
	cautionModerateCount  = 2
)

// buildVerdictParams is the snapshot the verdict is classified from.
type buildVerdictParams struct {
	risks             []RiskItem
	concernCount      int
	unsureCount       int
	completenessScore int
	confidenceScore   int
}

// verdictPack bundles the verdict with all of its explanatory text.
type verdictPack struct {
	verdict                  Verdict
	verdictReason            string
	whyThisVerdict           string
	whyThisVerdictBullets    []string
	riskWeightingExplanation string
	riskWeightingBullets     []string
	uncertaintyFactors       []UncertaintyFactor
	counterfactuals          []string
	buyerContext             []BuyerGuidance
}

// classifyVerdict is a pure classification of one snapshot. The confidence
// floor overrides everything: too little reliable evidence is itself a reason
// to walk away, even with zero negative findings.
func classifyVerdict(criticalCount, moderateCount, confidenceScore int) Verdict {
	switch {
	case criticalCount >= walkAwayCriticalCount || confidenceScore < walkAwayConfidence:
		return VerdictWalkAway
	case criticalCount >= 1 || moderateCount >= cautionModerateCount:
		return VerdictCaution
	default:
		return VerdictProceed
	}
}

// buildVerdict aggregates risk severities, uncertainty and coverage into the
// final verdict plus deterministic explanatory text.
func buildVerdict(p buildVerdictParams) verdictPack {
	criticalCount := countBySeverity(p.risks, RiskCritical)
	moderateCount := countBySeverity(p.risks, RiskModerate)

	verdict := classifyVerdict(criticalCount, moderateCount, p.confidenceScore)

	whyBullets := buildWhyBullets(criticalCount, moderateCount, p)
	weightBullets := buildWeightingBullets(verdict, criticalCount, moderateCount, p)

	return verdictPack{
		verdict:                  verdict,
		verdictReason:            verdictReason(verdict),
		whyThisVerdict:           strings.Join(whyBullets, " "),
		whyThisVerdictBullets:    whyBullets,
		riskWeightingExplanation: strings.Join(weightBullets, " "),
		riskWeightingBullets:     weightBullets,
		uncertaintyFactors:       buildUncertaintyFactors(p.unsureCount),
		counterfactuals:          buildCounterfactuals(verdict, p.unsureCount),
		buyerContext:             buyerContextFor(verdict),
	}
}

func verdictReason(v Verdict) string {
	switch v {
	case VerdictWalkAway:
		return "Serious red flags, or too little reliable evidence to safely proceed."
	case VerdictCaution:
		return "Some findings need answers before you commit to this car."
	default:
		return "Nothing strongly negative showed up in what you inspected."
	}
}

// buildWhyBullets produces the four fixed why-this-verdict bullets:
// risk impact, uncertainty source, coverage, concern count.
func buildWhyBullets(criticalCount, moderateCount int, p buildVerdictParams) []string {
	bullets := make([]string, 0, 4)

	switch {
	case criticalCount > 0:
		bullets = append(bullets, fmt.Sprintf(
			"%s carried the most weight in this verdict.",
			countPhrase(criticalCount, "critical finding", "critical findings")))
	case moderateCount > 0:
		bullets = append(bullets, fmt.Sprintf(
			"%s shaped this verdict more than anything else.",
			countPhrase(moderateCount, "moderate finding", "moderate findings")))
	default:
		bullets = append(bullets, "No significant defects were recorded, which anchors this verdict.")
	}

	if p.unsureCount > 0 {
		bullets = append(bullets, fmt.Sprintf(
			"%s you marked unsure limit how far the evidence can be trusted.",
			countPhrase(p.unsureCount, "item", "items")))
	} else {
		bullets = append(bullets, "Nothing was marked unsure, so the verdict leans fully on what you recorded.")
	}

	switch {
	case p.completenessScore >= 75:
		bullets = append(bullets, "Inspection coverage was thorough, so the verdict rests on solid ground.")
	case p.completenessScore >= 55:
		bullets = append(bullets, "Inspection coverage was partial, so the verdict carries some blind spots.")
	default:
		bullets = append(bullets, "Large parts of the inspection were not captured, which weakens every conclusion.")
	}

	if p.concernCount > 0 {
		bullets = append(bullets, fmt.Sprintf(
			"You flagged %s as a concern during the inspection.",
			countPhrase(p.concernCount, "item", "items")))
	} else {
		bullets = append(bullets, "You flagged no items as concerns during the inspection.")
	}

	return bullets
}

// buildWeightingBullets explains how each signal class was weighted.
func buildWeightingBullets(verdict Verdict, criticalCount, moderateCount int, p buildVerdictParams) []string {
	bullets := make([]string, 0, 6)

	switch {
	case criticalCount >= 2:
		bullets = append(bullets, "Multiple critical findings dominate everything else in the weighting.")
	case criticalCount == 1:
		bullets = append(bullets, "A single critical finding outweighs any number of smaller positives.")
	default:
		bullets = append(bullets, "No critical findings were present, so nothing forced the verdict down on its own.")
	}

	switch {
	case moderateCount >= 2:
		bullets = append(bullets, "Several moderate findings stack up and are weighted together, not individually.")
	case moderateCount == 1:
		bullets = append(bullets, "One moderate finding adds weight without deciding the verdict by itself.")
	default:
		bullets = append(bullets, "No moderate findings added weight against the car.")
	}

	if p.unsureCount > 0 {
		bullets = append(bullets, fmt.Sprintf(
			"%s marked unsure are weighted as open questions, not as faults.",
			countPhrase(p.unsureCount, "item", "items")))
	} else {
		bullets = append(bullets, "With no unsure answers, uncertainty added no downward weight.")
	}

	switch {
	case p.completenessScore >= 80:
		bullets = append(bullets, "Coverage was near-complete, so missing evidence barely discounts the result.")
	case p.completenessScore >= 60:
		bullets = append(bullets, "Coverage was reasonable but incomplete, applying a mild discount to the result.")
	case p.completenessScore >= 40:
		bullets = append(bullets, "Coverage gaps apply a real discount to how firmly this verdict can be held.")
	default:
		bullets = append(bullets, "Coverage was thin, and the weighting treats the whole record as low-evidence.")
	}

	switch {
	case p.confidenceScore >= 80:
		bullets = append(bullets, "Confidence in the evidence is high.")
	case p.confidenceScore >= 60:
		bullets = append(bullets, "Confidence in the evidence is moderate.")
	case p.confidenceScore >= 40:
		bullets = append(bullets, "Confidence in the evidence is limited.")
	default:
		bullets = append(bullets, "Confidence in the evidence is low, and the verdict is defensive because of it.")
	}

	switch verdict {
	case VerdictWalkAway:
		bullets = append(bullets, "Taken together, the balance of evidence supports stepping away from this car.")
	case VerdictCaution:
		bullets = append(bullets, "Taken together, the balance of evidence supports proceeding only with answers in hand.")
	default:
		bullets = append(bullets, "Taken together, the balance of evidence supports proceeding as planned.")
	}

	return bullets
}

// buildUncertaintyFactors returns at most one synthetic factor, present only
// when the buyer marked anything unsure.
func buildUncertaintyFactors(unsureCount int) []UncertaintyFactor {
	if unsureCount <= 0 {
		return []UncertaintyFactor{}
	}
	return []UncertaintyFactor{
		{
			Label:  countPhrase(unsureCount, "item marked unsure", "items marked unsure"),
			Impact: "moderate",
			Source: "user_marked_unsure",
		},
	}
}

// buildCounterfactuals lists what would change the verdict, in fixed order:
// unsure clarification, a verdict-specific path, and always a longer test
// drive.
func buildCounterfactuals(verdict Verdict, unsureCount int) []string {
	out := make([]string, 0, 3)
	if unsureCount > 0 {
		out = append(out, "If you can clarify the items you marked unsure, confidence in this verdict would improve.")
	}
	switch verdict {
	case VerdictCaution:
		out = append(out, "If the flagged concerns turn out to be minor on closer inspection, this verdict could move to proceed.")
	case VerdictWalkAway:
		out = append(out, "If a licensed mechanical inspection clears the critical findings, this verdict could be revisited.")
	}
	out = append(out, "A longer test drive covering a cold start, highway speed and tight turns would strengthen any verdict.")
	return out
}

// buyerTypes are the three buyer profiles every report addresses.
var buyerTypes = []string{"risk-averse", "practical", "short-term"}

// buyerContextFor returns exactly three guidance entries for the verdict,
// one per buyer type.
func buyerContextFor(verdict Verdict) []BuyerGuidance {
	texts := buyerGuidanceTexts[verdict]
	out := make([]BuyerGuidance, 0, len(buyerTypes))
	for _, bt := range buyerTypes {
		out = append(out, BuyerGuidance{BuyerType: bt, Guidance: texts[bt]})
	}
	return out
}

// buyerGuidanceTexts is the full 3×3 canned guidance matrix.
var buyerGuidanceTexts = map[Verdict]map[string]string{
	VerdictProceed: {
		"risk-averse": "Nothing here should alarm you, but a pre-purchase inspection is still cheap insurance relative to the price of the car.",
		"practical":   "The evidence supports going ahead. Use any small findings to negotiate, then move before someone else does.",
		"short-term":  "For a short ownership window this car looks low-drama. Prioritise tyres and brakes in the price discussion.",
	},
	VerdictCaution: {
		"risk-averse": "Do not commit until the flagged items are explained. Walking away costs you nothing; a hidden fault costs plenty.",
		"practical":   "The concerns here are probably quantifiable. Get quotes for the flagged items and take them off the price.",
		"short-term":  "Flagged items tend to surface as bills within the first year. Only proceed if the discount clearly covers them.",
	},
	VerdictWalkAway: {
		"risk-averse": "This is exactly the profile of purchase to avoid. There are other cars; let this one go.",
		"practical":   "The downside risk here outweighs any realistic discount. Spend your time on a cleaner example instead.",
		"short-term":  "A short ownership window gives no time to absorb a major fault. This car is not worth the gamble.",
	},
}

// countPhrase renders "1 item" / "3 items" style phrases.
func countPhrase(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %s", n, plural)
}
