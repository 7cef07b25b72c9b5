package ticket

import (
	"go.uber.org/zap"

	"fixhub/database/docstore"
	"fixhub/models"
	"fixhub/services/provider"
	"fixhub/utils"
)

// MigrateProviderInfo backfills denormalized provider fields onto records
// written before provider assignment existed. It runs once at startup,
// after the providers are seeded. Each update re-fetches the full document
// and patches only the provider fields, so nothing else is dropped.
func MigrateProviderInfo(db *docstore.DB, providers provider.ProviderService) {
	logger := utils.GetLogger()

	histCol := docstore.CollectionOf[models.AnalysisHistory](db, "analysisHistory")
	ticketCol := docstore.CollectionOf[models.Ticket](db, "tickets")

	updatedHistory := 0
	for _, h := range histCol.FindAll() {
		if h.TicketID == "" || h.ProviderName != "" {
			continue
		}
		prov := providers.ForCategory(h.Result.Category)
		if prov == nil {
			continue
		}
		if histCol.UpdateOne(docstore.Query{"_id": h.ID}, docstore.Patch{
			"providerId":       prov.ID,
			"providerName":     prov.Name,
			"providerEmail":    prov.Email,
			"providerCompany":  prov.Company,
			"providerCategory": prov.Category,
		}) {
			updatedHistory++
		}
	}

	updatedTickets := 0
	for _, t := range ticketCol.FindAll() {
		if t.ProviderName != "" {
			continue
		}
		prov := providers.ForCategory(t.Analysis.Category)
		if prov == nil {
			continue
		}
		if ticketCol.UpdateOne(docstore.Query{"_id": t.ID}, docstore.Patch{
			"providerId":       prov.ID,
			"providerName":     prov.Name,
			"providerEmail":    prov.Email,
			"providerCompany":  prov.Company,
			"providerCategory": prov.Category,
			"status":           models.StatusAssigned,
		}) {
			updatedTickets++
		}
	}

	if updatedHistory > 0 || updatedTickets > 0 {
		logger.Info("Provider info migration complete",
			zap.Int("historyRecords", updatedHistory),
			zap.Int("tickets", updatedTickets))
	}
}
