package dto

import (
	"time"

	"github.com/Thanhbi2612/Dreamlens/internal/models"
	"github.com/Thanhbi2612/Dreamlens/internal/utils"
)

// CreateDreamRequest new dream body
type CreateDreamRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=255"`
	Description *string `json:"description"`
}

// UpdateDreamRequest partial update body; only keys present in the JSON are applied
type UpdateDreamRequest struct {
	Title       utils.Optional[string]  `json:"title"`
	Description utils.Optional[*string] `json:"description"`
	IsPinned    utils.Optional[bool]    `json:"is_pinned"`
	IsArchived  utils.Optional[bool]    `json:"is_archived"`
}

// ListDreamsQuery list query parameters
type ListDreamsQuery struct {
	IncludeArchived bool `form:"include_archived"`
	Page            int  `form:"page,default=1" binding:"gte=1"`
	Limit           int  `form:"limit,default=10" binding:"gte=1,lte=50"`
}

// DreamResponse dream in listings
type DreamResponse struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	IsPinned    bool      `json:"is_pinned"`
	IsArchived  bool      `json:"is_archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ImageCount  int64     `json:"image_count"`
}

// ImageInDream image nested in a dream detail
type ImageInDream struct {
	ID             uint      `json:"id"`
	Prompt         string    `json:"prompt"`
	NegativePrompt *string   `json:"negative_prompt"`
	ImageURL       string    `json:"image_url"`
	ModelName      string    `json:"model_name"`
	Analysis       *string   `json:"analysis"`
	CreatedAt      time.Time `json:"created_at"`
}

// DreamDetailResponse dream with its images
type DreamDetailResponse struct {
	ID          uint           `json:"id"`
	UserID      uint           `json:"user_id"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	IsPinned    bool           `json:"is_pinned"`
	IsArchived  bool           `json:"is_archived"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	ImageCount  int64          `json:"image_count"`
	Images      []ImageInDream `json:"images"`
}

// DreamsPaginatedResponse page of dreams
type DreamsPaginatedResponse struct {
	Data       []DreamResponse `json:"data"`
	Pagination PaginationMeta  `json:"pagination"`
}

// DeleteAllDreamsResponse bulk deletion statistics
type DeleteAllDreamsResponse struct {
	Message       string `json:"message"`
	DreamsDeleted int64  `json:"dreams_deleted"`
	ImagesDeleted int64  `json:"images_deleted"`
}

// NewDreamResponse converts a dream
func NewDreamResponse(d *models.Dream) DreamResponse {
	return DreamResponse{
		ID:          d.ID,
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		IsPinned:    d.IsPinned,
		IsArchived:  d.IsArchived,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		ImageCount:  d.ImageCount,
	}
}

// NewDreamResponses converts a page of dreams
func NewDreamResponses(dreams []models.Dream) []DreamResponse {
	out := make([]DreamResponse, 0, len(dreams))
	for i := range dreams {
		out = append(out, NewDreamResponse(&dreams[i]))
	}
	return out
}

// NewDreamDetailResponse converts a dream and its loaded images
func NewDreamDetailResponse(d *models.Dream) DreamDetailResponse {
	images := make([]ImageInDream, 0, len(d.Images))
	for _, img := range d.Images {
		images = append(images, ImageInDream{
			ID:             img.ID,
			Prompt:         img.Prompt,
			NegativePrompt: img.NegativePrompt,
			ImageURL:       img.ImageURL,
			ModelName:      img.ModelName,
			Analysis:       img.Analysis,
			CreatedAt:      img.CreatedAt,
		})
	}
	return DreamDetailResponse{
		ID:          d.ID,
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		IsPinned:    d.IsPinned,
		IsArchived:  d.IsArchived,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		ImageCount:  int64(len(d.Images)),
		Images:      images,
	}
}
