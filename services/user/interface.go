package user

import (
	"fixhub/database/docstore"
	"fixhub/models"
)

// UserService covers signup, login and the lookup the auth middleware does
// on every protected request.
type UserService interface {
	Register(email, password, username, phone string) (*AuthResponse, error)
	Authenticate(email, password string) (*AuthResponse, error)
	GetByID(userID string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// DefaultUserService is the production implementation, backed by the users
// collection of the document store.
type DefaultUserService struct {
	Users docstore.Collection[models.User]
}

// NewDefaultUserService wires the service to the users collection.
func NewDefaultUserService(db *docstore.DB) *DefaultUserService {
	return &DefaultUserService{Users: docstore.CollectionOf[models.User](db, "users")}
}

// AuthResponse is returned by signup and login: a bearer token plus the
// public user projection.
type AuthResponse struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}
