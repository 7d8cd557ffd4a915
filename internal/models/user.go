package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email" validate:"required,email"`
	Name         string    `json:"name" validate:"required"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	PhotoURL     string    `json:"photoURL,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Public strips credentials before the user document leaves the service
// layer.
func (u User) Public() User {
	u.PasswordHash = ""

	return u
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Success        bool   `json:"success"`
	Token          string `json:"token,omitempty"`
	ExpiresIn      int    `json:"expiresIn,omitempty"`
	Message        string `json:"message,omitempty"`
	RemainingTries int    `json:"remainingTries,omitempty"`
	RetryAfter     int    `json:"retryAfter,omitempty"`
}

type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	PhotoURL *string `json:"photoURL,omitempty" validate:"omitempty,url"`
}

type UpdateRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=user admin"`
}

// Claims is the session identity carried through request context. Every
// service call receives the acting user explicitly instead of reading
// ambient state.
type Claims struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
	jwt.RegisteredClaims
}
