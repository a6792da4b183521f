package models

import (
	"time"
)

// MaxImageURLLength storage cap of GeneratedImage.ImageURL
const MaxImageURLLength = 500

// GeneratedImage one generated artifact. DreamID is nil for orphaned images
// created before dreams existed.
type GeneratedImage struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	DreamID        *uint     `gorm:"index" json:"dream_id"`
	Prompt         string    `gorm:"type:text;not null" json:"prompt"`
	NegativePrompt *string   `gorm:"type:text" json:"negative_prompt"`
	ImageURL       string    `gorm:"size:500;not null" json:"image_url"`
	ModelName      string    `gorm:"size:100;not null" json:"model_name"`
	Analysis       *string   `gorm:"type:text" json:"analysis"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// TableName table name
func (GeneratedImage) TableName() string {
	return "generated_images"
}

// IsOrphaned reports whether the image belongs to no dream
func (g *GeneratedImage) IsOrphaned() bool {
	return g.DreamID == nil
}
