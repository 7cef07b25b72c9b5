package ticket

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fixhub/models"
	"fixhub/utils"
)

// ExternalTicketing forwards tickets to a downstream ticketing system.
type ExternalTicketing interface {
	SendTicket(ctx context.Context, t models.Ticket) error
}

// StubTicketing simulates the downstream call: it logs the ticket, waits a
// beat to mimic network latency, and always succeeds. A production
// integration would POST to the ticketing vendor's API here.
type StubTicketing struct{}

func (z *StubTicketing) SendTicket(ctx context.Context, t models.Ticket) error {
	utils.GetLogger().Info("External ticket forwarded (stub)",
		zap.String("ticketID", t.ID),
		zap.String("userID", t.UserID),
		zap.String("category", t.Analysis.Category),
		zap.String("severity", t.Analysis.Severity),
		zap.String("summary", t.Analysis.InsuranceSummary))

	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
