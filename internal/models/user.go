package models

import (
	"time"
)

// Auth providers
const (
	AuthProviderLocal  = "local"
	AuthProviderGoogle = "google"
)

// User account. HashedPassword is nil for accounts created through Google.
type User struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Email          string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username       string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	HashedPassword *string   `gorm:"size:255" json:"-"`
	GoogleID       *string   `gorm:"uniqueIndex;size:255" json:"-"`
	AuthProvider   string    `gorm:"size:50;not null;default:'local'" json:"auth_provider"`
	FullName       *string   `gorm:"size:255" json:"full_name"`
	AvatarURL      *string   `gorm:"size:500" json:"avatar_url"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	IsVerified     bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Dreams []Dream          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Images []GeneratedImage `gorm:"foreignKey:UserID" json:"-"`
}

// TableName table name
func (User) TableName() string {
	return "users"
}

// IsLocal reports whether the account signs in with a local password
func (u *User) IsLocal() bool {
	return u.AuthProvider == AuthProviderLocal
}

// HasPassword reports whether a password hash is stored
func (u *User) HasPassword() bool {
	return u.HashedPassword != nil && *u.HashedPassword != ""
}
