package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/Thanhbi2612/Dreamlens/internal/dto"
	"github.com/Thanhbi2612/Dreamlens/internal/errs"
	"github.com/Thanhbi2612/Dreamlens/internal/models"
	"github.com/Thanhbi2612/Dreamlens/internal/repository"
)

// Dream listing limits
const (
	DefaultDreamPageSize = 10
	MaxDreamPageSize     = 50
	maxTitleLength       = 255
)

// DreamService dream CRUD scoped to the owner
type DreamService struct {
	dreamRepo *repository.DreamRepository
}

// NewDreamService creates the dream service
func NewDreamService(dreamRepo *repository.DreamRepository) *DreamService {
	return &DreamService{dreamRepo: dreamRepo}
}

// Create starts a new dream
func (s *DreamService) Create(ctx context.Context, userID uint, req *dto.CreateDreamRequest) (*models.Dream, error) {
	if err := validateTitle(req.Title); err != nil {
		return nil, err
	}

	dream := &models.Dream{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.dreamRepo.Create(ctx, dream); err != nil {
		return nil, fmt.Errorf("create dream: %w", err)
	}
	return dream, nil
}

// List returns one page of the user's dreams
func (s *DreamService) List(ctx context.Context, userID uint, includeArchived bool, page, limit int) (*dto.DreamsPaginatedResponse, error) {
	if page < 1 {
		return nil, errs.ValidationField("page", "page must be at least 1")
	}
	if limit < 1 || limit > MaxDreamPageSize {
		return nil, errs.ValidationField("limit", fmt.Sprintf("limit must be between 1 and %d", MaxDreamPageSize))
	}

	dreams, total, err := s.dreamRepo.ListByUser(ctx, userID, includeArchived, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("list dreams: %w", err)
	}

	return &dto.DreamsPaginatedResponse{
		Data:       dto.NewDreamResponses(dreams),
		Pagination: dto.NewPaginationMeta(total, page, limit),
	}, nil
}

// Get returns the dream with its images
func (s *DreamService) Get(ctx context.Context, id, userID uint) (*models.Dream, error) {
	return s.dreamRepo.GetByIDForUser(ctx, id, userID, true)
}

// Exists reports nil when the user owns the dream
func (s *DreamService) Exists(ctx context.Context, id, userID uint) error {
	_, err := s.dreamRepo.GetByIDForUser(ctx, id, userID, false)
	return err
}

// Update applies the fields present in req
func (s *DreamService) Update(ctx context.Context, id, userID uint, req *dto.UpdateDreamRequest) (*models.Dream, error) {
	if req.Title.Set {
		if req.Title.Null {
			return nil, errs.ValidationField("title", "title must not be null")
		}
		if err := validateTitle(req.Title.Value); err != nil {
			return nil, err
		}
	}
	if req.IsPinned.Null {
		return nil, errs.ValidationField("is_pinned", "is_pinned must not be null")
	}
	if req.IsArchived.Null {
		return nil, errs.ValidationField("is_archived", "is_archived must not be null")
	}

	return s.dreamRepo.Update(ctx, id, userID, repository.DreamUpdate{
		Title:       req.Title,
		Description: req.Description,
		IsPinned:    req.IsPinned,
		IsArchived:  req.IsArchived,
	})
}

// TogglePin flips the pinned flag
func (s *DreamService) TogglePin(ctx context.Context, id, userID uint) (*models.Dream, error) {
	return s.dreamRepo.TogglePin(ctx, id, userID)
}

// Delete removes the dream and its images
func (s *DreamService) Delete(ctx context.Context, id, userID uint) error {
	deleted, err := s.dreamRepo.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("delete dream: %w", err)
	}
	if !deleted {
		return errs.NotFound("dream")
	}
	return nil
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < 1 || n > maxTitleLength {
		return errs.ValidationField("title", fmt.Sprintf("title must be between 1 and %d characters", maxTitleLength))
	}
	return nil
}
