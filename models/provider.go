package models

// ServiceProvider is one of the fixed repair vendors tickets are routed to.
// Exactly four are seeded at startup if the collection is empty; users
// never create providers.
type ServiceProvider struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Company     string   `json:"company"`
	Specialties []string `json:"specialties"`
	IsActive    bool     `json:"isActive"`
	CreatedAt   string   `json:"createdAt"`
}

func (p ServiceProvider) DocumentID() string { return p.ID }
