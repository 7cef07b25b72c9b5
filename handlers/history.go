package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"fixhub/models"
	historySvc "fixhub/services/history"
	"fixhub/utils"
)

// HistoryHandler serves a user's analysis history.
type HistoryHandler struct {
	History historySvc.HistoryService
}

func NewHistoryHandler(hist historySvc.HistoryService) *HistoryHandler {
	return &HistoryHandler{History: hist}
}

// ListHandler serves GET /api/history. The collection is re-read first so
// listings pick up backfills written by the startup migration.
func (h *HistoryHandler) ListHandler(c *gin.Context) {
	userID := c.GetString("userID")

	h.History.Reload()
	records := h.History.ListForUser(userID)
	if records == nil {
		records = []models.AnalysisHistory{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": records})
}

// DeleteHandler serves DELETE /api/history/:id.
func (h *HistoryHandler) DeleteHandler(c *gin.Context) {
	userID := c.GetString("userID")
	analysisID := c.Param("id")

	if !h.History.Delete(userID, analysisID) {
		utils.JSONError(c, http.StatusNotFound, "Analysis not found or unauthorized", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Analysis deleted"})
}

// ClearHandler serves DELETE /api/history.
func (h *HistoryHandler) ClearHandler(c *gin.Context) {
	userID := c.GetString("userID")
	count := h.History.Clear(userID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Deleted %d analyses", count),
	})
}
