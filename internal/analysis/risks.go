package analysis

import (
	"fmt"
	"strings"
)

// buildRisksParams carries the two parallel views of the check answers:
// rawChecks exactly as the buyer left them (notes are matched against
// escalation keywords from here) and effectiveChecks after default-filling
// (concern detection runs on these). Collapsing the two would silently change
// scoring semantics, so they stay separate all the way down.
type buildRisksParams struct {
	rawChecks              map[string]CheckAnswer
	effectiveChecks        map[string]CheckAnswer
	imperfections          []Imperfection
	photosCapturedBaseline int
	requiredPhotoCount     int
}

// buildRisks converts raw check answers and deduplicated imperfections into a
// flat, typed list of risk findings. Order is deterministic: the baseline
// photo gap first, then imperfections in their deduped order, then the check
// rules in table order.
func buildRisks(p buildRisksParams) []RiskItem {
	risks := make([]RiskItem, 0, len(p.imperfections)+len(checkRules))

	// 1. Missing baseline photos.
	if p.photosCapturedBaseline < p.requiredPhotoCount {
		risks = append(risks, RiskItem{
			ID:    "missing-baseline-photos",
			Label: "Baseline photos incomplete",
			Explanation: fmt.Sprintf(
				"Only %d of %d required exterior photos were captured, so parts of the car were not documented.",
				p.photosCapturedBaseline, p.requiredPhotoCount,
			),
			Severity: RiskModerate,
		})
	}

	// 2. Imperfections. Major → critical, moderate → moderate, minor feeds
	//    evidence text only.
	for _, imp := range p.imperfections {
		switch imp.Severity {
		case SeverityMajor:
			risks = append(risks, imperfectionRisk(imp, RiskCritical,
				"A major defect was noted here. Treat it as a structural or high-cost item until proven otherwise."))
		case SeverityModerate:
			risks = append(risks, imperfectionRisk(imp, RiskModerate,
				"A moderate defect was noted here. Worth pricing into the negotiation."))
		}
	}

	// 3. Checklist concerns, table order.
	for _, rule := range checkRules {
		answer, ok := p.effectiveChecks[rule.id]
		if !ok || answer.Value != CheckConcern {
			continue
		}
		risks = append(risks, concernRisk(rule, p.rawChecks[rule.id].Note))
	}

	return risks
}

// imperfectionRisk maps one deduplicated imperfection to a risk finding.
// The buyer's own note wins over the canned explanation when substantial.
func imperfectionRisk(imp Imperfection, severity RiskSeverity, fallback string) RiskItem {
	label := imp.Label
	if label == "" {
		label = titleCaseID(imp.ID)
	}
	explanation := fallback
	if hasNote(imp.Note) {
		explanation = collapseWhitespace(imp.Note)
	}
	return RiskItem{
		ID:          "imperfection-" + imp.ID,
		Label:       label,
		Explanation: explanation,
		Severity:    severity,
	}
}

// concernRisk applies the shared escalation rule: the check's default
// severity, escalated to critical when the raw note matches any of the
// check's keywords. Keyword matching runs on the normalised note so casing
// and punctuation never matter.
func concernRisk(rule checkRule, rawNote string) RiskItem {
	severity := rule.defaultSeverity
	if severity == "" {
		severity = RiskModerate
	}

	normNote := normKey(rawNote)
	if normNote != "" {
		for _, kw := range rule.escalationKeywords {
			if strings.Contains(normNote, kw) {
				severity = RiskCritical
				break
			}
		}
	}

	explanation := rule.moderateText
	if severity == RiskCritical && rule.criticalText != "" {
		explanation = rule.criticalText
	}
	if hasNote(rawNote) {
		explanation = collapseWhitespace(rawNote)
	}

	return RiskItem{
		ID:          rule.id,
		Label:       rule.label,
		Explanation: explanation,
		Severity:    severity,
	}
}

// countBySeverity tallies risks at one severity.
func countBySeverity(risks []RiskItem, severity RiskSeverity) int {
	n := 0
	for _, r := range risks {
		if r.Severity == severity {
			n++
		}
	}
	return n
}
