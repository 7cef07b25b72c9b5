package ticket

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"fixhub/database/docstore"
	"fixhub/models"
	"fixhub/utils"
)

// ErrNoProvider is returned when no provider resolves for the analysis
// category. Given the seeded fallback provider this should never happen;
// hitting it means the provider collection is misconfigured, and the
// request fails as a server error.
var ErrNoProvider = errors.New("no service provider available for category")

// Create runs the synchronous ticket sequence: resolve provider, insert
// the ticket (status assigned), backfill the user's most recent history
// record with the linkage, and notify the external ticketing stub.
// The history linkage is best-effort: a user with no prior history still
// gets a ticket, just unlinked.
func (s *DefaultTicketService) Create(ctx context.Context, userID, description string, analysis models.AnalysisResult) (*models.Ticket, error) {
	logger := utils.GetLogger()

	prov := s.Providers.ForCategory(analysis.Category)
	if prov == nil {
		logger.Error("Ticket creation failed: no provider resolved",
			zap.String("category", analysis.Category))
		return nil, ErrNoProvider
	}

	stored := s.Tickets.InsertOne(models.Ticket{
		UserID:           userID,
		Description:      description,
		Analysis:         analysis,
		ProviderID:       prov.ID,
		ProviderName:     prov.Name,
		ProviderEmail:    prov.Email,
		ProviderCompany:  prov.Company,
		ProviderCategory: prov.Category,
		Status:           models.StatusAssigned,
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
	})

	if latest, ok := s.History.LatestForUser(userID); ok {
		if s.History.AttachTicket(latest.ID, stored.ID, *prov) {
			s.Tickets.UpdateOne(
				docstore.Query{"_id": stored.ID},
				docstore.Patch{"analysisHistoryId": latest.ID},
			)
			stored.AnalysisHistoryID = latest.ID
		}
	} else {
		logger.Debug("No analysis history to link ticket to", zap.String("userID", userID))
	}

	if err := s.External.SendTicket(ctx, stored); err != nil {
		// The stub never fails; a real integration would surface this.
		logger.Warn("External ticketing call failed", zap.Error(err))
	}

	logger.Info("Ticket created",
		zap.String("ticketID", stored.ID),
		zap.String("provider", prov.Name),
		zap.String("category", prov.Category))
	return &stored, nil
}

// ListForUser returns the caller's tickets in insertion order.
func (s *DefaultTicketService) ListForUser(userID string) []models.Ticket {
	return s.Tickets.Find(docstore.Query{"userId": userID})
}
