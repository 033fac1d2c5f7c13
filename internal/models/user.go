package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                     uuid.UUID  `json:"id"`
	Email                  string     `json:"email"`
	PasswordHash           string     `json:"-"`
	FullName               string     `json:"full_name"`
	AvatarURL              *string    `json:"avatar_url"`
	Country                *string    `json:"country"`
	EmergencyContactName   *string    `json:"emergency_contact_name"`
	EmergencyContactNumber *string    `json:"emergency_contact_number"`
	IsVerified             bool       `json:"is_verified"`
	IsActive               bool       `json:"is_active"`
	IsAdmin                bool       `json:"is_admin"`
	CreatedAt              time.Time  `json:"created_at"`
	LastLoginAt            *time.Time `json:"last_login_at"`
}

type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Country  string `json:"country"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UpdateProfileRequest struct {
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
	Country   *string `json:"country"`
}

type EmergencyContactRequest struct {
	ContactName   string `json:"contact_name"`
	ContactNumber string `json:"contact_number"`
}
