package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fixhub/models"
	userSvc "fixhub/services/user"
	"fixhub/utils"
)

// AuthHandler serves signup, login and the token-resolution endpoint.
type AuthHandler struct {
	Users userSvc.UserService
}

func NewAuthHandler(users userSvc.UserService) *AuthHandler {
	return &AuthHandler{Users: users}
}

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Username string `json:"username" binding:"required,min=2"`
	Phone    string `json:"phone" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignupHandler registers a new account and returns a bearer token.
func (h *AuthHandler) SignupHandler(c *gin.Context) {
	logger := getLogger(c)

	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	resp, err := h.Users.Register(req.Email, req.Password, req.Username, req.Phone)
	if err != nil {
		var dup userSvc.DuplicateEmailError
		if errors.As(err, &dup) {
			utils.JSONError(c, http.StatusBadRequest, "User already exists with this email", nil)
			return
		}
		logger.Error("Signup failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// LoginHandler authenticates and returns a fresh bearer token.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	logger := getLogger(c)

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	resp, err := h.Users.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userSvc.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid email or password", nil)
			return
		}
		logger.Error("Login failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// MeHandler returns the authenticated user's public profile.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	usr, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	u, ok := usr.(models.User)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u.Public()})
}
