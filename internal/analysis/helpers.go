package analysis

import (
	"sort"
	"strings"
	"unicode"
)

// minNoteLen is the threshold at which a free-text note counts as evidence.
const minNoteLen = 5

// clamp constrains v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// hasNote reports whether a note is substantial enough to count as evidence:
// at least minNoteLen characters after trimming.
func hasNote(note string) bool {
	return len(strings.TrimSpace(note)) >= minNoteLen
}

// severityWeight orders imperfection severities for sorting: major 3,
// moderate 2, everything else 1. Verdict weighting uses its own thresholds —
// this weight is only an ordering key.
func severityWeight(s ImperfectionSeverity) int {
	switch s {
	case SeverityMajor:
		return 3
	case SeverityModerate:
		return 2
	default:
		return 1
	}
}

// normKey is the canonical form used for dedup identity and keyword matching:
// lowercased, punctuation stripped (spaces and hyphens survive), whitespace
// collapsed.
func normKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// collapseWhitespace normalises user note text for display without changing
// its wording.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// titleCaseID turns an unknown check ID into a readable label:
// "rear-diff_mount" → "Rear Diff Mount".
func titleCaseID(id string) string {
	replaced := strings.NewReplacer("-", " ", "_", " ").Replace(id)
	words := strings.Fields(replaced)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// labelForCheckID returns the human-readable label for a known check ID,
// falling back to title-casing the ID itself.
func labelForCheckID(id string) string {
	if label, ok := checkLabels[id]; ok {
		return label
	}
	return titleCaseID(id)
}

// locationSeparator joins merged imperfection locations.
const locationSeparator = " • "

// dedupeKey is the identity under which imperfections are merged.
type dedupeKey struct {
	label    string
	severity ImperfectionSeverity
	note     string
}

// dedupeImperfections merges imperfections that describe the same defect —
// same normalised label (or ID when unlabelled), same severity, same
// normalised note — unioning their locations. The result is sorted by
// severity weight descending, then by normalised label ascending. A slice of
// zero or one elements is returned as-is.
func dedupeImperfections(list []Imperfection) []Imperfection {
	if len(list) <= 1 {
		return list
	}

	type group struct {
		imp       Imperfection
		locations []string
	}

	order := make([]dedupeKey, 0, len(list))
	groups := make(map[dedupeKey]*group, len(list))

	for _, imp := range list {
		labelOrID := imp.Label
		if labelOrID == "" {
			labelOrID = imp.ID
		}
		key := dedupeKey{
			label:    normKey(labelOrID),
			severity: imp.Severity,
			note:     normKey(imp.Note),
		}

		g, ok := groups[key]
		if !ok {
			g = &group{imp: imp}
			groups[key] = g
			order = append(order, key)
		}
		if loc := strings.TrimSpace(imp.Location); loc != "" {
			g.locations = append(g.locations, loc)
		}
	}

	out := make([]Imperfection, 0, len(order))
	for _, key := range order {
		g := groups[key]
		merged := g.imp
		merged.Location = strings.Join(g.locations, locationSeparator)
		out = append(out, merged)
	}

	sort.SliceStable(out, func(a, b int) bool {
		wa, wb := severityWeight(out[a].Severity), severityWeight(out[b].Severity)
		if wa != wb {
			return wa > wb
		}
		la := out[a].Label
		if la == "" {
			la = out[a].ID
		}
		lb := out[b].Label
		if lb == "" {
			lb = out[b].ID
		}
		return normKey(la) < normKey(lb)
	})

	return out
}
