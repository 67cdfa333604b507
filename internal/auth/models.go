package auth

import (
	"time"

	"github.com/google/uuid"
)

// DefaultAvatar is assigned to accounts without an uploaded picture.
const DefaultAvatar = "/assets/images/avatar.png"

// User represents an application user.
type User struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	Avatar       string
	IsAdmin      bool
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SafeUser removes sensitive fields for response payloads.
func (u User) SafeUser() User {
	u.PasswordHash = ""
	return u
}

// TokenPair bundles access and refresh tokens.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// Principal is the public view of whoever is making the request.
type Principal struct {
	ID        string     `json:"id"`
	Email     string     `json:"email,omitempty"`
	FullName  string     `json:"full_name"`
	Avatar    string     `json:"avatar"`
	IsAdmin   bool       `json:"is_admin"`
	Guest     bool       `json:"guest"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// GuestPrincipal is shown to visitors browsing without an account.
var GuestPrincipal = Principal{
	ID:       "guest",
	FullName: "Guest",
	Avatar:   DefaultAvatar,
	Guest:    true,
}

// PrincipalFor builds the public view of a stored user.
func PrincipalFor(u User) Principal {
	p := Principal{
		ID:       u.ID.String(),
		Email:    u.Email,
		FullName: u.FullName,
		Avatar:   u.Avatar,
		IsAdmin:  u.IsAdmin,
	}
	if p.Avatar == "" {
		p.Avatar = DefaultAvatar
	}
	if !u.CreatedAt.IsZero() {
		created := u.CreatedAt.UTC()
		p.CreatedAt = &created
	}
	return p
}
