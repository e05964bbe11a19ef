package analysis

import (
	"fmt"
	"sort"
	"strings"
)

// maxEvidenceBullets caps the bullet list; earliest bullets win.
const maxEvidenceBullets = 14

// evidenceParams feeds the evidence builders. rawChecks is the buyer's record
// as answered — default-filled values must never appear as evidence.
type evidenceParams struct {
	rawChecks              map[string]CheckAnswer
	imperfections          []Imperfection
	photosCapturedBaseline int
	followUpPhotos         int
}

// answerRank orders answered checks for bulleting: concerns first, then
// unsure, then ok.
func answerRank(v CheckValue) int {
	switch v {
	case CheckConcern:
		return 0
	case CheckUnsure:
		return 1
	default:
		return 2
	}
}

// sortedAnsweredChecks returns the IDs of checks the buyer actually answered,
// concern → unsure → ok, ties broken by ID so output is stable across runs.
func sortedAnsweredChecks(rawChecks map[string]CheckAnswer) []string {
	ids := make([]string, 0, len(rawChecks))
	for id, answer := range rawChecks {
		if answer.Value != "" {
			ids = append(ids, id)
		}
	}
	sort.SliceStable(ids, func(a, b int) bool {
		ra, rb := answerRank(rawChecks[ids[a]].Value), answerRank(rawChecks[ids[b]].Value)
		if ra != rb {
			return ra < rb
		}
		return ids[a] < ids[b]
	})
	return ids
}

// buildEvidenceBullets turns the raw record into buyer-facing prose bullets.
func buildEvidenceBullets(p evidenceParams) []string {
	bullets := make([]string, 0, maxEvidenceBullets)

	answered := sortedAnsweredChecks(p.rawChecks)
	for _, id := range answered {
		answer := p.rawChecks[id]
		label := labelForCheckID(id)
		switch answer.Value {
		case CheckConcern:
			b := fmt.Sprintf("You flagged %s as a concern", label)
			if hasNote(answer.Note) {
				b += ": " + collapseWhitespace(answer.Note)
			}
			bullets = append(bullets, b)
		case CheckUnsure:
			b := fmt.Sprintf("You were unsure about %s", label)
			if hasNote(answer.Note) {
				b += ": " + collapseWhitespace(answer.Note)
			}
			bullets = append(bullets, b)
		}
	}

	// Imperfections, most severe first.
	imps := make([]Imperfection, len(p.imperfections))
	copy(imps, p.imperfections)
	sort.SliceStable(imps, func(a, b int) bool {
		return severityWeight(imps[a].Severity) > severityWeight(imps[b].Severity)
	})
	for _, imp := range imps {
		bullets = append(bullets, imperfectionBullet(imp))
	}

	if p.photosCapturedBaseline > 0 {
		bullets = append(bullets, countBullet(p.photosCapturedBaseline, "baseline photo captured", "baseline photos captured"))
	}
	if p.followUpPhotos > 0 {
		bullets = append(bullets, countBullet(p.followUpPhotos, "follow-up photo captured", "follow-up photos captured"))
	}

	// Nothing negative and no photos: fall back to what was checked and fine
	// so the report never renders an empty evidence block.
	if len(bullets) == 0 {
		okListed := 0
		for _, id := range answered {
			if p.rawChecks[id].Value != CheckOK {
				continue
			}
			bullets = append(bullets, fmt.Sprintf("Checked and OK: %s", labelForCheckID(id)))
			okListed++
			if okListed == 3 {
				break
			}
		}
		if p.photosCapturedBaseline > 0 {
			bullets = append(bullets, countBullet(p.photosCapturedBaseline, "baseline photo captured", "baseline photos captured"))
		}
	}

	if len(bullets) > maxEvidenceBullets {
		bullets = bullets[:maxEvidenceBullets]
	}
	return bullets
}

func imperfectionBullet(imp Imperfection) string {
	label := imp.Label
	if label == "" {
		label = titleCaseID(imp.ID)
	}

	var b strings.Builder
	switch imp.Severity {
	case SeverityMajor:
		b.WriteString("Major imperfection — ")
	case SeverityModerate:
		b.WriteString("Moderate imperfection — ")
	default:
		b.WriteString("Minor imperfection — ")
	}
	b.WriteString(label)
	if loc := strings.TrimSpace(imp.Location); loc != "" {
		b.WriteString(" (" + loc + ")")
	}
	if hasNote(imp.Note) {
		b.WriteString(": " + collapseWhitespace(imp.Note))
	}
	return b.String()
}

func countBullet(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// buildEvidenceSummaryText builds the one-line narrative: concern count (or
// its absence), then unsure / imperfection / photo / follow-up counts, each
// only when non-zero, in that fixed order.
func buildEvidenceSummaryText(concernCount, unsureCount, imperfectionCount, photoCount, followUpCount int) string {
	sentences := make([]string, 0, 5)

	switch {
	case concernCount == 1:
		sentences = append(sentences, "1 item stood out as a concern.")
	case concernCount > 1:
		sentences = append(sentences, fmt.Sprintf("%d items stood out as concerns.", concernCount))
	default:
		sentences = append(sentences, "Nothing stood out as a concern.")
	}

	if unsureCount == 1 {
		sentences = append(sentences, "1 item was marked unsure.")
	} else if unsureCount > 1 {
		sentences = append(sentences, fmt.Sprintf("%d items were marked unsure.", unsureCount))
	}

	if imperfectionCount == 1 {
		sentences = append(sentences, "1 imperfection was noted.")
	} else if imperfectionCount > 1 {
		sentences = append(sentences, fmt.Sprintf("%d imperfections were noted.", imperfectionCount))
	}

	if photoCount == 1 {
		sentences = append(sentences, "1 baseline photo was captured.")
	} else if photoCount > 1 {
		sentences = append(sentences, fmt.Sprintf("%d baseline photos were captured.", photoCount))
	}

	if followUpCount == 1 {
		sentences = append(sentences, "1 follow-up photo was captured.")
	} else if followUpCount > 1 {
		sentences = append(sentences, fmt.Sprintf("%d follow-up photos were captured.", followUpCount))
	}

	return strings.Join(sentences, " ")
}

// buildEvidenceSummary packages bullets, the narrative line, explicitly
// uncertain items and raw counts into the EvidenceSummary object.
//
// ChecksCompleted counts every check in the raw mapping with a non-empty
// value — not just the key-check list — because the buyer may have answered
// checks outside it.
func buildEvidenceSummary(p evidenceParams) EvidenceSummary {
	concernCount, unsureCount := 0, 0
	checksCompleted := 0
	for _, answer := range p.rawChecks {
		if answer.Value == "" {
			continue
		}
		checksCompleted++
		switch answer.Value {
		case CheckConcern:
			concernCount++
		case CheckUnsure:
			unsureCount++
		}
	}

	uncertain := make([]string, 0, unsureCount)
	for _, id := range sortedAnsweredChecks(p.rawChecks) {
		answer := p.rawChecks[id]
		if answer.Value != CheckUnsure {
			continue
		}
		label := labelForCheckID(id)
		if note := strings.TrimSpace(answer.Note); note != "" {
			uncertain = append(uncertain, label+" — "+collapseWhitespace(note))
		} else {
			uncertain = append(uncertain, label)
		}
	}

	return EvidenceSummary{
		Bullets: buildEvidenceBullets(p),
		Summary: buildEvidenceSummaryText(
			concernCount, unsureCount, len(p.imperfections),
			p.photosCapturedBaseline, p.followUpPhotos,
		),
		ExplicitlyUncertainItems: uncertain,
		PhotosCaptured:           p.photosCapturedBaseline,
		PhotosExpected:           requiredPhotoCount,
		ChecksCompleted:          checksCompleted,
		ChecksExpected:           len(keyCheckIDs),
		ImperfectionsNoted:       len(p.imperfections),
		FollowUpPhotosCaptured:   p.followUpPhotos,
	}
}
