package models

// AnalysisHistory is a user-scoped record of a past analysis. The provider
// and ticket fields start empty and are backfilled once when a ticket is
// created against the record; once set, TicketID is never cleared.
type AnalysisHistory struct {
	ID               string         `json:"_id"`
	UserID           string         `json:"userId"`
	Description      string         `json:"description"`
	FileNames        []string       `json:"fileNames"`
	ImageURLs        []string       `json:"imageUrls"`
	Result           AnalysisResult `json:"result"`
	TicketID         string         `json:"ticketId,omitempty"`
	ProviderID       string         `json:"providerId,omitempty"`
	ProviderName     string         `json:"providerName,omitempty"`
	ProviderEmail    string         `json:"providerEmail,omitempty"`
	ProviderCompany  string         `json:"providerCompany,omitempty"`
	ProviderCategory string         `json:"providerCategory,omitempty"`
	CreatedAt        string         `json:"createdAt"`
}

func (h AnalysisHistory) DocumentID() string { return h.ID }
