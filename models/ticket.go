package models

// Ticket statuses. A freshly created ticket starts at StatusAssigned
// because provider resolution is synchronous and mandatory.
const (
	StatusPending    = "pending"
	StatusAssigned   = "assigned"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Ticket is a claim sent to a service provider. Provider fields are
// denormalized from the assigned ServiceProvider for quick access;
// AnalysisHistoryID links back to the history record that produced it,
// when one exists.
type Ticket struct {
	ID                string         `json:"_id"`
	UserID            string         `json:"userId"`
	Description       string         `json:"description"`
	Analysis          AnalysisResult `json:"analysis"`
	AnalysisHistoryID string         `json:"analysisHistoryId,omitempty"`
	ProviderID        string         `json:"providerId,omitempty"`
	ProviderName      string         `json:"providerName,omitempty"`
	ProviderEmail     string         `json:"providerEmail,omitempty"`
	ProviderCompany   string         `json:"providerCompany,omitempty"`
	ProviderCategory  string         `json:"providerCategory,omitempty"`
	Status            string         `json:"status"`
	CreatedAt         string         `json:"createdAt"`
}

func (t Ticket) DocumentID() string { return t.ID }
