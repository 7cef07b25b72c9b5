// Package history is the CRUD wrapper over the analysisHistory collection,
// scoped to a single user's past analyses.
package history

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"fixhub/database/docstore"
	"fixhub/models"
	"fixhub/utils"
)

// DefaultLimit caps how many records a listing returns.
const DefaultLimit = 50

// Timestamps carry milliseconds so listings sort correctly even for
// records created within the same second. The fixed fraction width keeps
// the strings lexicographically ordered.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// HistoryService records analyses and serves a user's history.
type HistoryService interface {
	Save(userID, description string, fileNames, imageURLs []string, result models.AnalysisResult) models.AnalysisHistory
	ListForUser(userID string) []models.AnalysisHistory
	LatestForUser(userID string) (models.AnalysisHistory, bool)
	AttachTicket(historyID, ticketID string, prov models.ServiceProvider) bool
	Delete(userID, analysisID string) bool
	Clear(userID string) int
	Reload()
}

// DefaultHistoryService is backed by the analysisHistory collection.
type DefaultHistoryService struct {
	Records docstore.Collection[models.AnalysisHistory]
}

// NewDefaultHistoryService wires the service to the analysisHistory
// collection.
func NewDefaultHistoryService(db *docstore.DB) *DefaultHistoryService {
	return &DefaultHistoryService{
		Records: docstore.CollectionOf[models.AnalysisHistory](db, "analysisHistory"),
	}
}

// Save records a finished analysis for the user.
func (s *DefaultHistoryService) Save(userID, description string, fileNames, imageURLs []string, result models.AnalysisResult) models.AnalysisHistory {
	if fileNames == nil {
		fileNames = []string{}
	}
	if imageURLs == nil {
		imageURLs = []string{}
	}
	doc := s.Records.InsertOne(models.AnalysisHistory{
		UserID:      userID,
		Description: description,
		FileNames:   fileNames,
		ImageURLs:   imageURLs,
		Result:      result,
		CreatedAt:   time.Now().UTC().Format(timestampLayout),
	})
	utils.GetLogger().Debug("Analysis saved",
		zap.String("userID", userID), zap.Int("images", len(imageURLs)))
	return doc
}

// ListForUser returns the user's history, newest first, capped at
// DefaultLimit.
func (s *DefaultHistoryService) ListForUser(userID string) []models.AnalysisHistory {
	all := s.Records.Find(docstore.Query{"userId": userID})
	// Reverse first so records sharing a timestamp come out newest
	// insertion first after the stable sort.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt > all[j].CreatedAt
	})
	if len(all) > DefaultLimit {
		all = all[:DefaultLimit]
	}
	return all
}

// LatestForUser returns the user's most recent record, if any.
func (s *DefaultHistoryService) LatestForUser(userID string) (models.AnalysisHistory, bool) {
	all := s.ListForUser(userID)
	if len(all) == 0 {
		return models.AnalysisHistory{}, false
	}
	return all[0], true
}

// AttachTicket backfills ticket linkage and denormalized provider fields
// onto a history record. The record is re-fetched in full first so the
// patch cannot drop fields; once set, ticketId is never cleared.
func (s *DefaultHistoryService) AttachTicket(historyID, ticketID string, prov models.ServiceProvider) bool {
	if _, exists := s.Records.FindByID(historyID); !exists {
		return false
	}
	return s.Records.UpdateOne(docstore.Query{"_id": historyID}, docstore.Patch{
		"ticketId":         ticketID,
		"providerId":       prov.ID,
		"providerName":     prov.Name,
		"providerEmail":    prov.Email,
		"providerCompany":  prov.Company,
		"providerCategory": prov.Category,
	})
}

// Delete removes one record, only if it belongs to the user.
func (s *DefaultHistoryService) Delete(userID, analysisID string) bool {
	doc, exists := s.Records.FindByID(analysisID)
	if !exists || doc.UserID != userID {
		return false
	}
	return s.Records.DeleteOne(docstore.Query{"_id": analysisID})
}

// Clear removes all of the user's records and returns the count.
func (s *DefaultHistoryService) Clear(userID string) int {
	return s.Records.DeleteMany(docstore.Query{"userId": userID})
}

// Reload re-reads the collection from disk; the history route calls this
// so listings pick up startup migrations.
func (s *DefaultHistoryService) Reload() {
	s.Records.Reload()
}
