package analysis

// ─── INPUT TYPES ─────────────────────────────────────────────────────────────

// CheckValue is the three-state result of one checklist item.
type CheckValue string

const (
	CheckOK      CheckValue = "ok"
	CheckConcern CheckValue = "concern"
	CheckUnsure  CheckValue = "unsure"
)

// CheckAnswer is one inspection checklist item's result, keyed by check ID
// in ScanProgress.Checks (e.g. "tyre-wear"). The engine never mutates it.
type CheckAnswer struct {
	Value CheckValue `json:"value"`
	Note  string     `json:"note,omitempty"`
}

// ImperfectionSeverity grades a free-form noted defect.
type ImperfectionSeverity string

const (
	SeverityMinor    ImperfectionSeverity = "minor"
	SeverityModerate ImperfectionSeverity = "moderate"
	SeverityMajor    ImperfectionSeverity = "major"
)

// Imperfection is a free-form defect noted by the inspector, independent of
// the fixed check list.
type Imperfection struct {
	ID       string               `json:"id"`
	Label    string               `json:"label,omitempty"`
	Severity ImperfectionSeverity `json:"severity"`
	Location string               `json:"location,omitempty"`
	Note     string               `json:"note,omitempty"`
}

// Photo is a captured image reference. Only StepID membership matters to the
// engine — the image bytes live elsewhere.
type Photo struct {
	StepID string `json:"stepId"`
	URL    string `json:"url,omitempty"`
}

// FollowUpPhoto is an extra photo taken outside the required baseline steps.
type FollowUpPhoto struct {
	StepID string `json:"stepId,omitempty"`
	URL    string `json:"url,omitempty"`
	Note   string `json:"note,omitempty"`
}

// ScanProgress is the sole input to the engine: everything the buyer recorded
// during an in-person inspection. All fields are optional — missing maps and
// slices are treated as empty, and the engine is read-only over the record.
type ScanProgress struct {
	Type           string                 `json:"type,omitempty"`
	ScanID         string                 `json:"scanId,omitempty"`
	Step           string                 `json:"step,omitempty"`
	AskingPriceAud int64                  `json:"askingPriceAud,omitempty"`
	Checks         map[string]CheckAnswer `json:"checks,omitempty"`
	Photos         []Photo                `json:"photos,omitempty"`
	FollowUpPhotos []FollowUpPhoto        `json:"followUpPhotos,omitempty"`
	Imperfections  []Imperfection         `json:"imperfections,omitempty"`
}

// ─── DERIVED TYPES ───────────────────────────────────────────────────────────

// RiskSeverity classifies a derived risk finding. Note this is a different
// scale from ImperfectionSeverity: major imperfections become critical risks.
type RiskSeverity string

const (
	RiskInfo     RiskSeverity = "info"
	RiskModerate RiskSeverity = "moderate"
	RiskCritical RiskSeverity = "critical"
)

// RiskItem is one risk finding derived from the inspection record. Produced
// fresh on every run, never persisted by this package.
type RiskItem struct {
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	Explanation string       `json:"explanation"`
	Severity    RiskSeverity `json:"severity"`
}

// Verdict is the final buyer recommendation.
type Verdict string

const (
	VerdictProceed  Verdict = "proceed"
	VerdictCaution  Verdict = "caution"
	VerdictWalkAway Verdict = "walk-away"
)

// ─── OUTPUT TYPES ────────────────────────────────────────────────────────────

// LeverageGroup is one negotiation-leverage category with its talking points.
type LeverageGroup struct {
	Category string   `json:"category"`
	Points   []string `json:"points"`
}

// NegotiationBand is a suggested AUD price-adjustment range at one stance.
type NegotiationBand struct {
	AudLow    int    `json:"audLow"`
	AudHigh   int    `json:"audHigh"`
	Label     string `json:"label"`
	Rationale string `json:"rationale"`
}

// NegotiationPositioning holds the three assertiveness stances.
type NegotiationPositioning struct {
	Conservative NegotiationBand `json:"conservative"`
	Balanced     NegotiationBand `json:"balanced"`
	Aggressive   NegotiationBand `json:"aggressive"`
}

// EvidenceSummary is the compact evidence object rendered at the top of the
// report: prose bullets, a narrative sentence, and raw counts.
type EvidenceSummary struct {
	Bullets                  []string `json:"bullets"`
	Summary                  string   `json:"summary"`
	ExplicitlyUncertainItems []string `json:"explicitlyUncertainItems"`
	PhotosCaptured           int      `json:"photosCaptured"`
	PhotosExpected           int      `json:"photosExpected"`
	ChecksCompleted          int      `json:"checksCompleted"`
	ChecksExpected           int      `json:"checksExpected"`
	ImperfectionsNoted       int      `json:"imperfectionsNoted"`
	FollowUpPhotosCaptured   int      `json:"followUpPhotosCaptured"`
}

// UncertaintyFactor names one source of doubt feeding the confidence score.
type UncertaintyFactor struct {
	Label  string `json:"label"`
	Impact string `json:"impact"`
	Source string `json:"source"`
}

// BuyerGuidance is verdict-specific advice for one buyer type.
type BuyerGuidance struct {
	BuyerType string `json:"buyerType"`
	Guidance  string `json:"guidance"`
}

// InferredSignals holds heuristics derived from the record that are not part
// of the main scoring. Confidence here is a fixed flag strength, not the
// report confidence score.
type InferredSignals struct {
	AdasPresentButDisabled bool `json:"adasPresentButDisabled"`
	Confidence             int  `json:"confidence"`
}

// PriceGuidance is an inert placeholder for a pricing feature that is not
// wired up yet. All value fields stay nil and Enabled stays false; only the
// disclaimer is populated.
type PriceGuidance struct {
	Enabled          bool     `json:"enabled"`
	AskingPriceAud   *int64   `json:"askingPriceAud"`
	EstimatedLowAud  *int64   `json:"estimatedLowAud"`
	EstimatedHighAud *int64   `json:"estimatedHighAud"`
	Rationale        []string `json:"rationale"`
	Disclaimer       string   `json:"disclaimer"`
}

// Result is the full analysis output returned to the report renderer.
// Every field is derived; nothing round-trips back into ScanProgress.
type Result struct {
	Verdict                    Verdict                `json:"verdict"`
	VerdictReason              string                 `json:"verdictReason"`
	ConfidenceScore            int                    `json:"confidenceScore"`
	CompletenessScore          int                    `json:"completenessScore"`
	Risks                      []RiskItem             `json:"risks"`
	NegotiationLeverage        []LeverageGroup        `json:"negotiationLeverage"`
	NegotiationPositioning     NegotiationPositioning `json:"negotiationPositioning"`
	WhyThisVerdict             string                 `json:"whyThisVerdict"`
	WhyThisVerdictBullets      []string               `json:"whyThisVerdictBullets"`
	RiskWeightingExplanation   string                 `json:"riskWeightingExplanation"`
	RiskWeightingBullets       []string               `json:"riskWeightingBullets"`
	EvidenceSummary            EvidenceSummary        `json:"evidenceSummary"`
	UncertaintyFactors         []UncertaintyFactor    `json:"uncertaintyFactors"`
	Counterfactuals            []string               `json:"counterfactuals"`
	BuyerContextInterpretation []BuyerGuidance        `json:"buyerContextInterpretation"`
	InferredSignals            InferredSignals        `json:"inferredSignals"`
	PriceGuidance              PriceGuidance          `json:"priceGuidance"`
}
