package models

// Severity levels recognised by the analyzer.
const (
	SeverityMinor    = "minor"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

// Damage categories. CategoryVVS is the legacy Danish label for plumbing
// still present in old tickets.
const (
	CategoryAppliance   = "appliance"
	CategoryElectronics = "electronics"
	CategoryPlumbing    = "plumbing"
	CategoryFurniture   = "furniture"
	CategoryOther       = "other"
	CategoryVVS         = "vvs"
)

// AnalysisResult is the structured output of the damage analyzer. It is
// embedded in both AnalysisHistory and Ticket documents, never stored on
// its own. All fields are free-text strings; EstimatedCost in particular is
// an opaque range like "600–900 DKK" and is intentionally left unparsed.
type AnalysisResult struct {
	IssueSummary     string `json:"issueSummary"`
	RecommendedFix   string `json:"recommendedFix"`
	Difficulty       string `json:"difficulty"` // easy | medium | hard
	Urgency          string `json:"urgency"`    // low | normal | high
	Category         string `json:"category"`
	SubCategory      string `json:"subCategory"`
	Severity         string `json:"severity"`
	EstimatedCost    string `json:"estimatedCost"`
	RepairOrReplace  string `json:"repairOrReplace"` // repair | replace
	InsuranceSummary string `json:"insuranceSummary"`
}
