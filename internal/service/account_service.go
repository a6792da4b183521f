package service

import (
	"context"
	"fmt"

	"github.com/Thanhbi2612/Dreamlens/internal/dto"
	"github.com/Thanhbi2612/Dreamlens/internal/errs"
	"github.com/Thanhbi2612/Dreamlens/internal/models"
	"github.com/Thanhbi2612/Dreamlens/internal/repository"
	"github.com/Thanhbi2612/Dreamlens/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AccountService bulk deletions spanning users, dreams and images. Each
// operation runs in a single transaction.
type AccountService struct {
	db        *gorm.DB
	userRepo  *repository.UserRepository
	dreamRepo *repository.DreamRepository
	imageRepo *repository.GeneratedImageRepository
	logger    logrus.FieldLogger
}

// NewAccountService creates the account service
func NewAccountService(db *gorm.DB, userRepo *repository.UserRepository, dreamRepo *repository.DreamRepository, imageRepo *repository.GeneratedImageRepository, logger logrus.FieldLogger) *AccountService {
	return &AccountService{
		db:        db,
		userRepo:  userRepo,
		dreamRepo: dreamRepo,
		imageRepo: imageRepo,
		logger:    logger.WithField("component", "account_service"),
	}
}

// DeleteAccount removes the user and everything they own. Local accounts
// must confirm with their password.
func (s *AccountService) DeleteAccount(ctx context.Context, user *models.User, password *string) (*dto.DeleteAccountResponse, error) {
	if user.IsLocal() {
		if password == nil || *password == "" {
			return nil, errs.ValidationField("password", "Password is required for local account deletion")
		}
		if !user.HasPassword() {
			return nil, errs.ValidationField("password", "No password set for this account")
		}
		if err := utils.CheckPassword(*password, *user.HashedPassword); err != nil {
			return nil, errs.Auth("Invalid password")
		}
	}

	result := &dto.DeleteAccountResponse{Message: "Account deleted successfully"}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		dreams := s.dreamRepo.WithTx(tx)
		images := s.imageRepo.WithTx(tx)

		var err error
		if result.OrphanedImagesDeleted, err = images.CountOrphansByUser(ctx, user.ID); err != nil {
			return fmt.Errorf("count orphaned images: %w", err)
		}
		if result.DreamsDeleted, err = dreams.DeleteAllByUser(ctx, user.ID); err != nil {
			return fmt.Errorf("delete dreams: %w", err)
		}
		if _, err = images.DeleteOrphansByUser(ctx, user.ID); err != nil {
			return fmt.Errorf("delete orphaned images: %w", err)
		}
		if err = users.Delete(ctx, user.ID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":                 user.ID,
		"dreams_deleted":          result.DreamsDeleted,
		"orphaned_images_deleted": result.OrphanedImagesDeleted,
	}).Info("account deleted")
	return result, nil
}

// DeleteAllDreams removes every dream and image of the user, keeping the account
func (s *AccountService) DeleteAllDreams(ctx context.Context, userID uint) (*dto.DeleteAllDreamsResponse, error) {
	result := &dto.DeleteAllDreamsResponse{Message: "All dreams deleted successfully"}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dreams := s.dreamRepo.WithTx(tx)
		images := s.imageRepo.WithTx(tx)

		dreamCount, err := dreams.CountByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("count dreams: %w", err)
		}
		inDreams, err := images.CountInDreamsByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("count images: %w", err)
		}
		orphans, err := images.CountOrphansByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("count orphaned images: %w", err)
		}

		if _, err := dreams.DeleteAllByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete dreams: %w", err)
		}
		if _, err := images.DeleteOrphansByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete orphaned images: %w", err)
		}

		result.DreamsDeleted = dreamCount
		result.ImagesDeleted = inDreams + orphans
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":        userID,
		"dreams_deleted": result.DreamsDeleted,
		"images_deleted": result.ImagesDeleted,
	}).Info("all dreams deleted")
	return result, nil
}
