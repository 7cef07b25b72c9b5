package user

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"fixhub/database/docstore"
	"fixhub/models"
	"fixhub/utils"
)

// Register creates a new account, enforcing email uniqueness
// (case-insensitive) above the store, and returns a fresh bearer token.
func (s *DefaultUserService) Register(email, password, username, phone string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, exists := s.Users.FindOne(docstore.Query{"email": email}); exists {
		return nil, DuplicateEmailError{Email: email}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("Register: failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	stored := s.Users.InsertOne(models.User{
		Email:        email,
		PasswordHash: string(hash),
		Username:     username,
		Phone:        phone,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	})

	token, err := utils.GenerateToken(stored.ID)
	if err != nil {
		utils.GetLogger().Error("Register: failed to issue token", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	return &AuthResponse{Token: token, User: stored.Public()}, nil
}

// Authenticate verifies credentials and issues a new bearer token. The
// same error is returned whether the email is unknown or the password is
// wrong.
func (s *DefaultUserService) Authenticate(email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	usr, exists := s.Users.FindOne(docstore.Query{"email": email})
	if !exists {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(usr.ID)
	if err != nil {
		utils.GetLogger().Error("Authenticate: failed to issue token", zap.Error(err))
		return nil, fmt.Errorf("login failed, please try again")
	}

	return &AuthResponse{Token: token, User: usr.Public()}, nil
}

// GetByID resolves a user by id, as the auth middleware does per request.
func (s *DefaultUserService) GetByID(userID string) (*models.User, error) {
	usr, exists := s.Users.FindByID(userID)
	if !exists {
		return nil, ErrUserNotFound
	}
	return &usr, nil
}

// GetByEmail resolves a user by (lowercased) email.
func (s *DefaultUserService) GetByEmail(email string) (*models.User, error) {
	usr, exists := s.Users.FindOne(docstore.Query{"email": strings.ToLower(strings.TrimSpace(email))})
	if !exists {
		return nil, ErrUserNotFound
	}
	return &usr, nil
}
