package models

import (
	"time"
)

// Dream a journaling session owned by one user, grouping generated images
type Dream struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	IsPinned    bool      `gorm:"not null;default:false" json:"is_pinned"`
	IsArchived  bool      `gorm:"not null;default:false" json:"is_archived"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// ImageCount is computed at read time
	ImageCount int64 `gorm:"-" json:"image_count"`

	Images []GeneratedImage `gorm:"foreignKey:DreamID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

// TableName table name
func (Dream) TableName() string {
	return "dreams"
}
