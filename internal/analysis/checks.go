package analysis

// This file is the authoritative rule set for the fixed inspection checklist.
// All tables are package-level constants in effect: nothing outside this
// package can mutate them, and nothing in this package writes to them after
// init.

// checkLabels maps known check IDs to their buyer-facing labels. Legacy IDs
// from older clients map to the same labels as their current counterparts.
var checkLabels = map[string]string{
	"body-panels-paint":    "Body panels & paint",
	"body-panels":          "Body panels & paint", // legacy id
	"headlights-condition": "Headlights & lenses",
	"windscreen-damage":    "Windscreen",
	"tyre-wear":            "Tyres",
	"tyres":                "Tyres", // legacy id
	"brakes-visible":       "Brakes (visible)",
	"interior-smell":       "Interior smell",
	"interior-condition":   "Interior condition",
	"seat-adjustment":      "Seat adjustment",
	"windows-operation":    "Windows",
	"mirrors-operation":    "Mirrors",
	"seatbelts-trim":       "Seatbelts & trim",
	"aircon":               "Air conditioning",
	"noise-hesitation":     "Engine noise & hesitation",
	"steering":             "Steering",
	"adas-systems":         "Driver assistance (ADAS)",
	"underbody-leaks":      "Underbody leaks",
	"engine-bay":           "Engine bay",
	"test-drive":           "Test drive",
}

// checkRule is one row of the concern-escalation table: when the check is
// answered "concern", the default severity applies unless the raw note
// matches one of the escalation keywords, in which case the risk becomes
// critical. Explanation text prefers the buyer's own note; the canned texts
// are the fallback.
type checkRule struct {
	id                 string
	label              string
	defaultSeverity    RiskSeverity
	moderateText       string
	criticalText       string
	escalationKeywords []string
}

// checkRules is iterated in order when building risks. The windscreen and
// air-conditioning rows were bespoke inline cases in the first cut of this
// pipeline; they fit the shared shape, so they live in the table like
// everything else.
var checkRules = []checkRule{
	{
		id:              "body-panels-paint",
		label:           "Body panels & paint",
		defaultSeverity: RiskModerate,
		moderateText:    "Panel or paint issues were flagged — check for prior repairs before negotiating.",
		criticalText:    "Panel damage suggests a prior accident repair. Get the history checked.",
		escalationKeywords: []string{
			"rust", "respray", "overspray", "accident", "filler",
		},
	},
	{
		id:              "headlights-condition",
		label:           "Headlights & lenses",
		defaultSeverity: RiskModerate,
		moderateText:    "Headlight condition was flagged — hazing or moisture is usually a cheap fix but worth pricing.",
	},
	{
		id:              "windscreen-damage",
		label:           "Windscreen",
		defaultSeverity: RiskModerate,
		moderateText:    "Windscreen damage was flagged. Chips can often be repaired; confirm size and position.",
		criticalText:    "Windscreen damage in the driver's line of sight usually means a full replacement.",
		escalationKeywords: []string{
			"crack", "driver", "line crack", "long crack",
		},
	},
	{
		id:              "tyre-wear",
		label:           "Tyres",
		defaultSeverity: RiskModerate,
		moderateText:    "Tyre wear was flagged — budget for replacement when negotiating.",
		criticalText:    "Tyre condition is at or past the safe limit. Factor in an immediate full set.",
		escalationKeywords: []string{
			"bald", "cord", "wire", "below indicator", "canvas",
		},
	},
	{
		id:              "brakes-visible",
		label:           "Brakes (visible)",
		defaultSeverity: RiskModerate,
		moderateText:    "Visible brake wear was flagged — pads and rotors are a known near-term cost.",
		criticalText:    "Brake components look worn out. Have them inspected before any test drive.",
		escalationKeywords: []string{
			"grinding", "metal on metal", "no pad", "scored",
		},
	},
	{
		id:              "interior-smell",
		label:           "Interior smell",
		defaultSeverity: RiskModerate,
		moderateText:    "An interior smell was flagged — damp or mould can indicate water entry.",
		criticalText:    "A strong damp or burnt smell can indicate water damage or electrical faults.",
		escalationKeywords: []string{
			"mould", "mold", "damp", "burnt", "flood",
		},
	},
	{
		id:              "interior-condition",
		label:           "Interior condition",
		defaultSeverity: RiskModerate,
		moderateText:    "Interior wear was flagged — heavy wear against low odometer reading deserves questions.",
	},
	{
		id:              "seat-adjustment",
		label:           "Seat adjustment",
		defaultSeverity: RiskModerate,
		moderateText:    "Seat adjustment issues were flagged — electric seat motors can be costly to repair.",
	},
	{
		id:              "windows-operation",
		label:           "Windows",
		defaultSeverity: RiskModerate,
		moderateText:    "Window operation issues were flagged — regulators are a common and priceable repair.",
	},
	{
		id:              "mirrors-operation",
		label:           "Mirrors",
		defaultSeverity: RiskModerate,
		moderateText:    "Mirror operation issues were flagged.",
	},
	{
		id:              "seatbelts-trim",
		label:           "Seatbelts & trim",
		defaultSeverity: RiskModerate,
		moderateText:    "Seatbelt or trim issues were flagged — frayed or slow-retracting belts are a safety item.",
		criticalText:    "Seatbelt condition is a safety-critical defect. Do not rely on it being minor.",
		escalationKeywords: []string{
			"frayed", "won't retract", "wont retract", "locked",
		},
	},
	{
		id:              "aircon",
		label:           "Air conditioning",
		defaultSeverity: RiskModerate,
		moderateText:    "Air conditioning performance was flagged — a regas is cheap, a compressor is not.",
		criticalText:    "Air conditioning appears to have failed. Compressor replacement is a four-figure job.",
		escalationKeywords: []string{
			"not cooling", "no cold", "blowing hot", "compressor", "failed",
		},
	},
	{
		id:              "noise-hesitation",
		label:           "Engine noise & hesitation",
		defaultSeverity: RiskCritical,
		moderateText:    "Engine noise or hesitation was flagged.",
		criticalText:    "Engine noise or hesitation under load points at the driveline — the most expensive thing on the car.",
	},
	{
		id:              "steering",
		label:           "Steering",
		defaultSeverity: RiskCritical,
		moderateText:    "Steering feel was flagged.",
		criticalText:    "Steering play, pulling or knocking is a safety-critical finding.",
	},
	{
		id:              "adas-systems",
		label:           "Driver assistance (ADAS)",
		defaultSeverity: RiskModerate,
		moderateText:    "Driver-assistance behaviour was flagged — warning lights or disabled systems can hide sensor damage.",
		criticalText:    "Driver-assistance systems appear faulty or disabled. Calibration after windscreen or body work is often skipped.",
		escalationKeywords: []string{
			"warning light", "fault", "disabled", "error",
		},
	},
	{
		id:              "underbody-leaks",
		label:           "Underbody leaks",
		defaultSeverity: RiskCritical,
		moderateText:    "Possible underbody leak was flagged.",
		criticalText:    "Fluid underneath the car means an active leak. Identify the fluid before going further.",
	},
}

// keyCheckIDs is the literal key-check list used for coverage maths. It
// deliberately contains both current and legacy synonym IDs (body-panels-paint
// and body-panels), and the coverage denominator is this literal length — not
// the deduplicated set size. Default-filling uses the deduplicated set.
var keyCheckIDs = []string{
	"body-panels-paint",
	"body-panels", // legacy synonym, still counted
	"headlights-condition",
	"windscreen-damage",
	"tyre-wear",
	"brakes-visible",
	"interior-smell",
	"interior-condition",
	"seat-adjustment",
	"windows-operation",
	"mirrors-operation",
	"seatbelts-trim",
	"aircon",
	"noise-hesitation",
	"steering",
	"adas-systems",
	"underbody-leaks",
}

// requiredPhotoSteps are the baseline exterior angles every inspection should
// capture. Photo coverage is the fraction of these present among captured
// photo step IDs.
var requiredPhotoSteps = []string{
	"exterior-front",
	"exterior-rear",
	"exterior-driver-side",
	"exterior-passenger-side",
}

// requiredPhotoCount is the photo-coverage denominator.
const requiredPhotoCount = 4
