package dto

import (
	"time"

	"github.com/Thanhbi2612/Dreamlens/internal/models"
)

// RegisterRequest registration body
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email,max=255"`
	Username string  `json:"username" binding:"required,min=3,max=100"`
	Password string  `json:"password" binding:"required,min=6,max=100"`
	FullName *string `json:"full_name" binding:"omitempty,max=255"`
}

// LoginRequest login body; identifier is an email or a username
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// LoginResponse issued access token
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        UserInfo `json:"user"`
}

// DeleteAccountRequest confirmation body; password is required for local accounts
type DeleteAccountRequest struct {
	Password *string `json:"password"`
}

// DeleteAccountResponse account deletion statistics
type DeleteAccountResponse struct {
	Message               string `json:"message"`
	DreamsDeleted         int64  `json:"dreams_deleted"`
	OrphanedImagesDeleted int64  `json:"orphaned_images_deleted"`
}

// UserInfo public user profile
type UserInfo struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FullName     *string   `json:"full_name"`
	AvatarURL    *string   `json:"avatar_url"`
	AuthProvider string    `json:"auth_provider"`
	IsActive     bool      `json:"is_active"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUserInfo builds the public profile of u
func NewUserInfo(u *models.User) UserInfo {
	return UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FullName:     u.FullName,
		AvatarURL:    u.AvatarURL,
		AuthProvider: u.AuthProvider,
		IsActive:     u.IsActive,
		IsVerified:   u.IsVerified,
		CreatedAt:    u.CreatedAt,
	}
}
