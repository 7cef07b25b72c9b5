package models

// User represents a registered account. Emails are stored lowercased and
// matched case-insensitively; the password hash never leaves the backend.
type User struct {
	ID           string `json:"_id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Username     string `json:"username"`
	Phone        string `json:"phone"`
	CreatedAt    string `json:"createdAt"`
}

func (u User) DocumentID() string { return u.ID }

// UserResponse is the public projection of a User returned by the auth
// endpoints.
type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
}

// Public returns the response projection of the user.
func (u User) Public() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Phone:    u.Phone,
	}
}
