package handlers

import (
	"github.com/gin-gonic/gin"

	"fixhub/services/user"
)

// HandlerBundle collects every route handler plus the user service the
// auth middleware needs. main.go assembles it and hands it to
// routes.RegisterRoutes.
type HandlerBundle struct {
	Users user.UserService

	// Auth endpoints.
	SignupHandler gin.HandlerFunc
	LoginHandler  gin.HandlerFunc
	MeHandler     gin.HandlerFunc

	// Analysis endpoints.
	AnalyzeHandler gin.HandlerFunc

	// Ticket endpoints.
	CreateTicketHandler gin.HandlerFunc
	ListTicketsHandler  gin.HandlerFunc

	// History endpoints.
	ListHistoryHandler   gin.HandlerFunc
	DeleteHistoryHandler gin.HandlerFunc
	ClearHistoryHandler  gin.HandlerFunc

	// Upload session endpoints.
	CreateSessionHandler gin.HandlerFunc
	SessionStatusHandler gin.HandlerFunc
	SessionUploadHandler gin.HandlerFunc
	SessionFilesHandler  gin.HandlerFunc

	// Debug endpoints.
	DebugStorageHandler gin.HandlerFunc
}
