package ticket

import (
	"context"

	"fixhub/database/docstore"
	"fixhub/models"
	"fixhub/services/history"
	"fixhub/services/provider"
)

// TicketService creates claims tickets and lists a user's tickets.
type TicketService interface {
	Create(ctx context.Context, userID, description string, analysis models.AnalysisResult) (*models.Ticket, error)
	ListForUser(userID string) []models.Ticket
}

// DefaultTicketService assigns providers synchronously and links tickets
// back to the history record that produced them.
type DefaultTicketService struct {
	Tickets   docstore.Collection[models.Ticket]
	Providers provider.ProviderService
	History   history.HistoryService
	External  ExternalTicketing
}

// NewDefaultTicketService wires the service to the tickets collection and
// its collaborators.
func NewDefaultTicketService(db *docstore.DB, providers provider.ProviderService, hist history.HistoryService) *DefaultTicketService {
	return &DefaultTicketService{
		Tickets:   docstore.CollectionOf[models.Ticket](db, "tickets"),
		Providers: providers,
		History:   hist,
		External:  &StubTicketing{},
	}
}
