package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fixhub/config"
	"fixhub/handlers"
	"fixhub/middleware"
)

// RegisterAuthRoutes registers signup, login and token resolution.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/signup", hb.SignupHandler)
		api.POST("/login", hb.LoginHandler)

		// Protected routes (Require Authentication)
		api.GET("/me", middleware.JWTAuthUserMiddleware(hb.Users), hb.MeHandler)
	}
}

// RegisterAnalyzeRoutes registers the damage analysis endpoint.
func RegisterAnalyzeRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.Users))
		api.POST("/analyze", hb.AnalyzeHandler)
	}
}

// RegisterTicketRoutes registers ticket creation and listing.
func RegisterTicketRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/tickets")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.Users))
		api.POST("", hb.CreateTicketHandler)
		api.GET("", hb.ListTicketsHandler)
	}
}

// RegisterHistoryRoutes registers the analysis history endpoints.
func RegisterHistoryRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/history")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.Users))
		api.GET("", hb.ListHistoryHandler)
		api.DELETE("/:id", hb.DeleteHistoryHandler)
		api.DELETE("", hb.ClearHistoryHandler)
	}
}

// RegisterUploadSessionRoutes registers the cross-device upload handshake.
// The upload push is intentionally unauthenticated: the session id is the
// capability.
func RegisterUploadSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/upload-session")
	{
		api.POST("/:id/upload", hb.SessionUploadHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthUserMiddleware(hb.Users))
		protected.POST("/create", hb.CreateSessionHandler)
		protected.GET("/:id", hb.SessionStatusHandler)
		protected.GET("/:id/files", hb.SessionFilesHandler)
	}
}

// RegisterDebugRoutes registers the storage status endpoint.
func RegisterDebugRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/debug")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.Users))
		api.GET("/storage", hb.DebugStorageHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	allowOrigins := []string{"http://localhost:3000"}
	if config.AppConfig.FrontendURL != "" {
		allowOrigins = append(allowOrigins, config.AppConfig.FrontendURL)
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterAnalyzeRoutes(r, hb)
	RegisterTicketRoutes(r, hb)
	RegisterHistoryRoutes(r, hb)
	RegisterUploadSessionRoutes(r, hb)
	RegisterDebugRoutes(r, hb)
	RegisterHealthRoute(r)
}
