package handlers

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fixhub/models"
	sessionSvc "fixhub/services/uploadsession"
	"fixhub/utils"
)

// UploadSessionHandler serves the cross-device upload handshake. The
// upload endpoint is deliberately unauthenticated: the random session id
// is the capability.
type UploadSessionHandler struct {
	Sessions sessionSvc.SessionService
}

func NewUploadSessionHandler(sessions sessionSvc.SessionService) *UploadSessionHandler {
	return &UploadSessionHandler{Sessions: sessions}
}

// CreateHandler serves POST /api/upload-session/create. Expired sessions
// are reaped opportunistically first.
func (h *UploadSessionHandler) CreateHandler(c *gin.Context) {
	h.Sessions.CleanExpired()

	session := h.Sessions.Create()
	c.JSON(http.StatusOK, gin.H{
		"sessionId": session.ID,
		"expiresAt": session.ExpiresAt,
	})
}

// StatusHandler serves GET /api/upload-session/:id, the desktop's polling
// endpoint. File payloads are withheld; only metadata is returned.
func (h *UploadSessionHandler) StatusHandler(c *gin.Context) {
	session, exists := h.Sessions.Get(c.Param("id"))
	if !exists {
		utils.JSONError(c, http.StatusNotFound, "Session not found", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId":   session.ID,
		"status":      session.Status,
		"fileCount":   len(session.Files),
		"description": session.Description,
		"expiresAt":   session.ExpiresAt,
	})
}

// UploadHandler serves POST /api/upload-session/:id/upload, the
// unauthenticated push from the second device.
func (h *UploadSessionHandler) UploadHandler(c *gin.Context) {
	logger := getLogger(c)

	files, err := readUploadedFiles(c)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}
	if len(files) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "No files uploaded", nil)
		return
	}

	description := strings.TrimSpace(c.PostForm("description"))
	if utf8.RuneCountInString(description) < 5 {
		utils.JSONError(c, http.StatusBadRequest, "Description must be at least 5 characters", nil)
		return
	}

	sessionFiles := make([]models.UploadSessionFile, 0, len(files))
	for _, f := range files {
		sessionFiles = append(sessionFiles, models.UploadSessionFile{
			Data:     f.Data,
			Filename: f.Name,
			MimeType: f.Mime,
			Size:     int64(len(f.Data)),
		})
	}

	switch err := h.Sessions.AttachFiles(c.Param("id"), sessionFiles, description); {
	case errors.Is(err, sessionSvc.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Session not found or expired", nil)
		return
	case errors.Is(err, sessionSvc.ErrExpired):
		utils.JSONError(c, http.StatusBadRequest, "Session has expired", nil)
		return
	case errors.Is(err, sessionSvc.ErrAlreadyUploaded):
		utils.JSONError(c, http.StatusBadRequest, "Session already has files uploaded", nil)
		return
	case err != nil:
		logger.Error("Upload session update failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to upload files", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Files uploaded successfully",
		"fileCount": len(sessionFiles),
	})
}

// FilesHandler serves GET /api/upload-session/:id/files, the desktop's
// retrieval of the uploaded payloads.
func (h *UploadSessionHandler) FilesHandler(c *gin.Context) {
	session, exists := h.Sessions.Get(c.Param("id"))
	if !exists {
		utils.JSONError(c, http.StatusNotFound, "Session not found", nil)
		return
	}

	if session.Status != models.SessionUploaded {
		utils.JSONError(c, http.StatusBadRequest, "No files uploaded yet", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files":       session.Files,
		"description": session.Description,
	})
}
