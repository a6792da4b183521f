package dto

import (
	"time"

	"github.com/Thanhbi2612/Dreamlens/internal/models"
)

// GenerateImageRequest generation body
type GenerateImageRequest struct {
	Prompt         string  `json:"prompt" binding:"required,min=1,max=1000"`
	DreamID        uint    `json:"dream_id" binding:"required"`
	NegativePrompt *string `json:"negative_prompt" binding:"omitempty,max=1000"`
}

// ImageGenerationResponse generation result; ImageURL is the full data URI
type ImageGenerationResponse struct {
	ID             uint      `json:"id"`
	Prompt         string    `json:"prompt"`
	NegativePrompt *string   `json:"negative_prompt"`
	ImageURL       string    `json:"image_url"`
	Model          string    `json:"model"`
	Analysis       *string   `json:"analysis"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListImagesQuery my-images query
type ListImagesQuery struct {
	Limit int `form:"limit,default=20" binding:"gte=1,lte=100"`
}

// GeneratedImageResponse stored image
type GeneratedImageResponse struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"user_id"`
	DreamID        *uint     `json:"dream_id"`
	Prompt         string    `json:"prompt"`
	NegativePrompt *string   `json:"negative_prompt"`
	ImageURL       string    `json:"image_url"`
	ModelName      string    `json:"model_name"`
	Analysis       *string   `json:"analysis"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConnectionStatusResponse image service configuration check
type ConnectionStatusResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	TokenPresent bool   `json:"token_present"`
	TokenLength  int    `json:"token_length,omitempty"`
	ModelPresent bool   `json:"model_present"`
	Model        string `json:"model,omitempty"`
}

// NewGeneratedImageResponses converts stored images
func NewGeneratedImageResponses(images []models.GeneratedImage) []GeneratedImageResponse {
	out := make([]GeneratedImageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, GeneratedImageResponse{
			ID:             img.ID,
			UserID:         img.UserID,
			DreamID:        img.DreamID,
			Prompt:         img.Prompt,
			NegativePrompt: img.NegativePrompt,
			ImageURL:       img.ImageURL,
			ModelName:      img.ModelName,
			Analysis:       img.Analysis,
			CreatedAt:      img.CreatedAt,
		})
	}
	return out
}
