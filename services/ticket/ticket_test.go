package ticket

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fixhub/database/docstore"
	"fixhub/models"
	"fixhub/services/history"
	"fixhub/services/provider"
	"fixhub/utils"
)

func init() {
	utils.Logger = zap.NewNop()
}

// recordingTicketing captures outbound tickets instead of sleeping like
// the stub does.
type recordingTicketing struct {
	sent []models.Ticket
}

func (r *recordingTicketing) SendTicket(ctx context.Context, t models.Ticket) error {
	r.sent = append(r.sent, t)
	return nil
}

func newTestTicketService(t *testing.T) (*DefaultTicketService, history.HistoryService, *recordingTicketing) {
	t.Helper()
	db, err := docstore.Open(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	providers := provider.NewDefaultProviderService(db)
	providers.Seed()
	hist := history.NewDefaultHistoryService(db)

	svc := NewDefaultTicketService(db, providers, hist)
	external := &recordingTicketing{}
	svc.External = external
	return svc, hist, external
}

func applianceAnalysis() models.AnalysisResult {
	return models.AnalysisResult{
		IssueSummary:    "Dishwasher door fell off",
		RecommendedFix:  "Replace the hinge",
		Difficulty:      "medium",
		Urgency:         "normal",
		Category:        models.CategoryAppliance,
		SubCategory:     "dishwasher",
		Severity:        models.SeverityModerate,
		EstimatedCost:   "600-900 DKK",
		RepairOrReplace: "repair",
	}
}

func TestCreateAssignsProviderAndNotifiesExternal(t *testing.T) {
	svc, _, external := newTestTicketService(t)

	ticket, err := svc.Create(context.Background(), "user_1", "dishwasher door fell off", applianceAnalysis())
	require.NoError(t, err)

	assert.Equal(t, models.StatusAssigned, ticket.Status)
	assert.Equal(t, "user_1", ticket.UserID)
	assert.Equal(t, models.CategoryAppliance, ticket.ProviderCategory)
	assert.Equal(t, "Lars Hansen", ticket.ProviderName)
	assert.Equal(t, "FixHub Appliance Repair", ticket.ProviderCompany)
	assert.NotEmpty(t, ticket.ProviderID)
	assert.NotEmpty(t, ticket.CreatedAt)

	require.Len(t, external.sent, 1)
	assert.Equal(t, ticket.ID, external.sent[0].ID)
}

func TestCreateLinksLatestHistoryRecord(t *testing.T) {
	svc, hist, _ := newTestTicketService(t)

	record := hist.Save("user_1", "dishwasher door fell off", nil, nil, applianceAnalysis())

	ticket, err := svc.Create(context.Background(), "user_1", "dishwasher door fell off", applianceAnalysis())
	require.NoError(t, err)
	assert.Equal(t, record.ID, ticket.AnalysisHistoryID)

	linked := hist.ListForUser("user_1")
	require.Len(t, linked, 1)
	assert.Equal(t, ticket.ID, linked[0].TicketID)
	assert.Equal(t, ticket.ProviderName, linked[0].ProviderName)
	assert.Equal(t, ticket.ProviderCompany, linked[0].ProviderCompany)
	// The original analysis fields survive the linkage patch.
	assert.Equal(t, "dishwasher door fell off", linked[0].Description)
	assert.Equal(t, models.CategoryAppliance, linked[0].Result.Category)
}

func TestCreateWithoutHistoryStillProducesTicket(t *testing.T) {
	svc, _, _ := newTestTicketService(t)

	ticket, err := svc.Create(context.Background(), "user_2", "cracked phone", models.AnalysisResult{
		Category: models.CategoryElectronics,
	})
	require.NoError(t, err)
	assert.Empty(t, ticket.AnalysisHistoryID)
	assert.Equal(t, "Maria Nielsen", ticket.ProviderName)
}

func TestCreateDoesNotLinkAnotherUsersHistory(t *testing.T) {
	svc, hist, _ := newTestTicketService(t)

	hist.Save("other_user", "their claim", nil, nil, applianceAnalysis())

	ticket, err := svc.Create(context.Background(), "user_1", "mine", applianceAnalysis())
	require.NoError(t, err)
	assert.Empty(t, ticket.AnalysisHistoryID)

	other := hist.ListForUser("other_user")
	require.Len(t, other, 1)
	assert.Empty(t, other[0].TicketID)
}

func TestCreateFailsWithoutProviders(t *testing.T) {
	db, err := docstore.Open(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	svc := NewDefaultTicketService(db, provider.NewDefaultProviderService(db), history.NewDefaultHistoryService(db))

	_, err = svc.Create(context.Background(), "user_1", "anything", applianceAnalysis())
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestListForUserFiltersByOwner(t *testing.T) {
	svc, _, _ := newTestTicketService(t)

	_, err := svc.Create(context.Background(), "user_1", "a", applianceAnalysis())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "user_2", "b", applianceAnalysis())
	require.NoError(t, err)

	mine := svc.ListForUser("user_1")
	require.Len(t, mine, 1)
	assert.Equal(t, "a", mine[0].Description)
}

func TestLegacyCategoryRoutesToPlumber(t *testing.T) {
	svc, _, _ := newTestTicketService(t)

	ticket, err := svc.Create(context.Background(), "user_1", "vvs issue", models.AnalysisResult{
		Category: models.CategoryVVS,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hans Andersen", ticket.ProviderName)
	assert.Equal(t, models.CategoryPlumbing, ticket.ProviderCategory)
}
