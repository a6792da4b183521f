package repository

import (
	"context"
	"errors"

	"github.com/Thanhbi2612/Dreamlens/internal/errs"
	"github.com/Thanhbi2612/Dreamlens/internal/models"
	"github.com/Thanhbi2612/Dreamlens/internal/utils"

	"gorm.io/gorm"
)

// DreamUpdate partial dream update; unset fields are left untouched
type DreamUpdate struct {
	Title       utils.Optional[string]
	Description utils.Optional[*string]
	IsPinned    utils.Optional[bool]
	IsArchived  utils.Optional[bool]
}

// Columns returns the columns to write
func (u DreamUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.Title.Set {
		cols["title"] = u.Title.Value
	}
	if u.Description.Set {
		cols["description"] = u.Description.Value
	}
	if u.IsPinned.Set {
		cols["is_pinned"] = u.IsPinned.Value
	}
	if u.IsArchived.Set {
		cols["is_archived"] = u.IsArchived.Value
	}
	return cols
}

// DreamRepository dream data access. Every query is scoped to an owner.
type DreamRepository struct {
	db *gorm.DB
}

// NewDreamRepository creates a dream repository
func NewDreamRepository(db *gorm.DB) *DreamRepository {
	return &DreamRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *DreamRepository) WithTx(tx *gorm.DB) *DreamRepository {
	return &DreamRepository{db: tx}
}

// Create inserts a dream
func (r *DreamRepository) Create(ctx context.Context, dream *models.Dream) error {
	if err := r.db.WithContext(ctx).Create(dream).Error; err != nil {
		return err
	}
	dream.ImageCount = 0
	return nil
}

// ListByUser returns one page of the user's dreams, pinned first, then newest
// first, ties broken by id. total is counted before paging.
func (r *DreamRepository) ListByUser(ctx context.Context, userID uint, includeArchived bool, offset, limit int) ([]models.Dream, int64, error) {
	var dreams []models.Dream
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Dream{}).Where("user_id = ?", userID)
	if !includeArchived {
		query = query.Where("is_archived = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("is_pinned DESC").
		Order("created_at DESC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&dreams).Error
	if err != nil {
		return nil, 0, err
	}

	if err := r.attachImageCounts(ctx, dreams); err != nil {
		return nil, 0, err
	}

	return dreams, total, nil
}

// GetByIDForUser finds a dream owned by userID. Dreams of other users are
// reported as not found.
func (r *DreamRepository) GetByIDForUser(ctx context.Context, id, userID uint, withImages bool) (*models.Dream, error) {
	var dream models.Dream

	query := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID)
	if withImages {
		query = query.Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		})
	}

	err := query.First(&dream).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("dream")
	}
	if err != nil {
		return nil, err
	}

	if withImages {
		dream.ImageCount = int64(len(dream.Images))
		return &dream, nil
	}

	dreams := []models.Dream{dream}
	if err := r.attachImageCounts(ctx, dreams); err != nil {
		return nil, err
	}
	return &dreams[0], nil
}

// Update applies the present fields of update and returns the refreshed dream
func (r *DreamRepository) Update(ctx context.Context, id, userID uint, update DreamUpdate) (*models.Dream, error) {
	dream, err := r.GetByIDForUser(ctx, id, userID, false)
	if err != nil {
		return nil, err
	}

	cols := update.Columns()
	if len(cols) == 0 {
		return dream, nil
	}

	err = r.db.WithContext(ctx).
		Model(&models.Dream{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(cols).Error
	if err != nil {
		return nil, err
	}

	return r.GetByIDForUser(ctx, id, userID, false)
}

// TogglePin flips the pinned flag
func (r *DreamRepository) TogglePin(ctx context.Context, id, userID uint) (*models.Dream, error) {
	dream, err := r.GetByIDForUser(ctx, id, userID, false)
	if err != nil {
		return nil, err
	}

	return r.Update(ctx, id, userID, DreamUpdate{IsPinned: utils.Some(!dream.IsPinned)})
}

// Delete removes the dream and its images in one transaction. It reports
// false when no dream matched both id and owner.
func (r *DreamRepository) Delete(ctx context.Context, id, userID uint) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dream models.Dream
		err := tx.Select("id").Where("id = ? AND user_id = ?", id, userID).First(&dream).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Where("dream_id = ?", dream.ID).Delete(&models.GeneratedImage{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", dream.ID, userID).Delete(&models.Dream{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// CountByUser counts every dream of the user, archived included
func (r *DreamRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Dream{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// DeleteAllByUser removes the user's dreams together with their images.
// Orphaned images are not touched. Run it inside a transaction.
func (r *DreamRepository) DeleteAllByUser(ctx context.Context, userID uint) (int64, error) {
	db := r.db.WithContext(ctx)

	dreamIDs := db.Model(&models.Dream{}).Select("id").Where("user_id = ?", userID)
	if err := db.Where("dream_id IN (?)", dreamIDs).Delete(&models.GeneratedImage{}).Error; err != nil {
		return 0, err
	}

	res := db.Where("user_id = ?", userID).Delete(&models.Dream{})
	return res.RowsAffected, res.Error
}

type dreamImageCount struct {
	DreamID uint
	Count   int64
}

// attachImageCounts fills ImageCount with one grouped query
func (r *DreamRepository) attachImageCounts(ctx context.Context, dreams []models.Dream) error {
	if len(dreams) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(dreams))
	for _, d := range dreams {
		ids = append(ids, d.ID)
	}

	var rows []dreamImageCount
	err := r.db.WithContext(ctx).
		Model(&models.GeneratedImage{}).
		Select("dream_id, COUNT(*) AS count").
		Where("dream_id IN ?", ids).
		Group("dream_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.DreamID] = row.Count
	}
	for i := range dreams {
		dreams[i].ImageCount = counts[dreams[i].ID]
	}
	return nil
}
