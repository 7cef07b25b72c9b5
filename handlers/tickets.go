package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fixhub/models"
	ticketSvc "fixhub/services/ticket"
	"fixhub/utils"
)

// TicketHandler serves ticket creation and listing.
type TicketHandler struct {
	Tickets ticketSvc.TicketService
}

func NewTicketHandler(tickets ticketSvc.TicketService) *TicketHandler {
	return &TicketHandler{Tickets: tickets}
}

// analysisPayload validates an embedded AnalysisResult. The category set
// includes legacy labels ("vvs") still emitted by old clients; the newer
// descriptive fields are optional on input.
type analysisPayload struct {
	IssueSummary     string `json:"issueSummary"`
	RecommendedFix   string `json:"recommendedFix"`
	Difficulty       string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Urgency          string `json:"urgency" binding:"omitempty,oneof=low normal high"`
	Category         string `json:"category" binding:"required,oneof=appliance electronics plumbing furniture other vvs"`
	SubCategory      string `json:"subCategory" binding:"required"`
	Severity         string `json:"severity" binding:"required,oneof=minor moderate severe"`
	EstimatedCost    string `json:"estimatedCost" binding:"required"`
	RepairOrReplace  string `json:"repairOrReplace" binding:"required,oneof=repair replace"`
	InsuranceSummary string `json:"insuranceSummary" binding:"required"`
}

type createTicketRequest struct {
	Description string          `json:"description" binding:"required,min=5"`
	Analysis    analysisPayload `json:"analysis" binding:"required"`
}

// CreateHandler serves POST /api/tickets.
func (h *TicketHandler) CreateHandler(c *gin.Context) {
	logger := getLogger(c)

	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	userID := c.GetString("userID")
	analysis := models.AnalysisResult{
		IssueSummary:     req.Analysis.IssueSummary,
		RecommendedFix:   req.Analysis.RecommendedFix,
		Difficulty:       req.Analysis.Difficulty,
		Urgency:          req.Analysis.Urgency,
		Category:         req.Analysis.Category,
		SubCategory:      req.Analysis.SubCategory,
		Severity:         req.Analysis.Severity,
		EstimatedCost:    req.Analysis.EstimatedCost,
		RepairOrReplace:  req.Analysis.RepairOrReplace,
		InsuranceSummary: req.Analysis.InsuranceSummary,
	}

	created, err := h.Tickets.Create(c.Request.Context(), userID, req.Description, analysis)
	if err != nil {
		if errors.Is(err, ticketSvc.ErrNoProvider) {
			utils.JSONError(c, http.StatusInternalServerError, "No service provider available", nil)
			return
		}
		logger.Error("Ticket creation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"ticketId": created.ID,
		"message":  "Ticket created and sent to company (mocked)",
	})
}

// ListHandler serves GET /api/tickets.
func (h *TicketHandler) ListHandler(c *gin.Context) {
	userID := c.GetString("userID")
	tickets := h.Tickets.ListForUser(userID)
	if tickets == nil {
		tickets = []models.Ticket{}
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}
