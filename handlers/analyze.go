package handlers

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fixhub/services/analyzer"
	"fixhub/services/history"
	"fixhub/services/storage"
	"fixhub/utils"
)

// AnalyzeHandler runs the damage analysis flow: validate the multipart
// request, stash images, produce an AnalysisResult and record it in the
// caller's history.
type AnalyzeHandler struct {
	Analyzer analyzer.Analyzer
	History  history.HistoryService
	Storage  storage.StorageService
}

func NewAnalyzeHandler(a analyzer.Analyzer, hist history.HistoryService, store storage.StorageService) *AnalyzeHandler {
	return &AnalyzeHandler{Analyzer: a, History: hist, Storage: store}
}

// Handle serves POST /api/analyze.
func (h *AnalyzeHandler) Handle(c *gin.Context) {
	logger := getLogger(c)

	description := strings.TrimSpace(c.PostForm("description"))
	if n := utf8.RuneCountInString(description); n < 5 || n > 500 {
		utils.JSONError(c, http.StatusBadRequest, "Validation failed",
			"description must be between 5 and 500 characters")
		return
	}

	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var files []storage.File
	if c.ContentType() == "multipart/form-data" {
		var err error
		files, err = readUploadedFiles(c)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Validation failed", err.Error())
			return
		}
	}

	fileNames := make([]string, 0, len(files))
	for _, f := range files {
		fileNames = append(fileNames, f.Name)
	}

	// Store images in the cloud when configured; otherwise, or when the
	// upload fails, keep base64 previews so the history still renders.
	var imageURLs []string
	if len(files) > 0 {
		if h.Storage.IsConfigured() {
			urls, err := h.Storage.UploadImages(c.Request.Context(), files)
			if err != nil {
				logger.Warn("Image upload failed, keeping base64 previews", zap.Error(err))
				imageURLs = base64Previews(files)
			} else {
				imageURLs = urls
			}
		} else {
			imageURLs = base64Previews(files)
		}
	}

	result, err := h.Analyzer.Analyze(c.Request.Context(), description)
	if err != nil {
		// DefaultAnalyzerService absorbs AI failures; reaching this means
		// something unexpected broke.
		logger.Error("Analysis failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	h.History.Save(userID, description, fileNames, imageURLs, result)

	c.JSON(http.StatusOK, result)
}

func base64Previews(files []storage.File) []string {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		urls = append(urls, fmt.Sprintf("data:%s;base64,%s",
			f.Mime, base64.StdEncoding.EncodeToString(f.Data)))
	}
	return urls
}
