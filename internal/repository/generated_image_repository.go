package repository

import (
	"context"

	"github.com/Thanhbi2612/Dreamlens/internal/models"

	"gorm.io/gorm"
)

// GeneratedImageRepository generated image data access
type GeneratedImageRepository struct {
	db *gorm.DB
}

// NewGeneratedImageRepository creates a generated image repository
func NewGeneratedImageRepository(db *gorm.DB) *GeneratedImageRepository {
	return &GeneratedImageRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *GeneratedImageRepository) WithTx(tx *gorm.DB) *GeneratedImageRepository {
	return &GeneratedImageRepository{db: tx}
}

// Create inserts an image record
func (r *GeneratedImageRepository) Create(ctx context.Context, image *models.GeneratedImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// ListByUser returns the user's most recent images, newest first
func (r *GeneratedImageRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.GeneratedImage, error) {
	var images []models.GeneratedImage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&images).Error
	return images, err
}

// CountInDreamsByUser counts the user's images that belong to a dream
func (r *GeneratedImageRepository) CountInDreamsByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GeneratedImage{}).
		Where("user_id = ? AND dream_id IS NOT NULL", userID).
		Count(&count).Error
	return count, err
}

// CountOrphansByUser counts the user's images without a dream
func (r *GeneratedImageRepository) CountOrphansByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GeneratedImage{}).
		Where("user_id = ? AND dream_id IS NULL", userID).
		Count(&count).Error
	return count, err
}

// DeleteOrphansByUser removes the user's images without a dream
func (r *GeneratedImageRepository) DeleteOrphansByUser(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND dream_id IS NULL", userID).
		Delete(&models.GeneratedImage{})
	return res.RowsAffected, res.Error
}
