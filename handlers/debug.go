package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fixhub/config"
	"fixhub/database/docstore"
)

// DebugHandler exposes backend storage status for troubleshooting.
type DebugHandler struct {
	Store *docstore.DB
}

func NewDebugHandler(store *docstore.DB) *DebugHandler {
	return &DebugHandler{Store: store}
}

// StorageHandler serves GET /api/debug/storage.
func (h *DebugHandler) StorageHandler(c *gin.Context) {
	stats := h.Store.Stats()

	aiStatus := "Not configured"
	if config.AppConfig.GeminiAPIKey != "" {
		aiStatus = "Connected"
	}

	c.JSON(http.StatusOK, gin.H{
		"database": gin.H{
			"connected":   stats.Connected,
			"type":        "File-backed document store",
			"description": "In-memory collections persisted to JSON files",
			"dataDir":     h.Store.Dir(),
			"collections": stats.Collections,
		},
		"aiProvider": gin.H{
			"name":   "Google Gemini",
			"status": aiStatus,
			"model":  "gemini-2.5-flash",
		},
	})
}
