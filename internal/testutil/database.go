// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Thanhbi2612/Dreamlens/internal/config"
	"github.com/Thanhbi2612/Dreamlens/internal/models"
	"github.com/Thanhbi2612/Dreamlens/internal/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB opens a migrated SQLite database in a temporary directory
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := models.OpenDB(&config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "test.db"),
		AutoMigrate: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps transactions and reads on the same SQLite handle
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

// CreateLocalUser inserts an active local user with the given password
func CreateLocalUser(t *testing.T, db *gorm.DB, username, password string) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Email:          username + "@example.com",
		Username:       username,
		HashedPassword: &hash,
		AuthProvider:   models.AuthProviderLocal,
		IsActive:       true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateGoogleUser inserts an active Google user without a password
func CreateGoogleUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	googleID := "google-" + username
	user := &models.User{
		Email:        username + "@gmail.com",
		Username:     username,
		GoogleID:     &googleID,
		AuthProvider: models.AuthProviderGoogle,
		IsActive:     true,
		IsVerified:   true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateDream inserts a dream with an explicit creation time
func CreateDream(t *testing.T, db *gorm.DB, userID uint, title string, createdAt time.Time, pinned, archived bool) *models.Dream {
	t.Helper()

	dream := &models.Dream{
		UserID:     userID,
		Title:      title,
		IsPinned:   pinned,
		IsArchived: archived,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	require.NoError(t, db.Create(dream).Error)
	return dream
}

// CreateImage inserts a generated image; dreamID may be nil for an orphan
func CreateImage(t *testing.T, db *gorm.DB, userID uint, dreamID *uint, prompt string) *models.GeneratedImage {
	t.Helper()

	image := &models.GeneratedImage{
		UserID:    userID,
		DreamID:   dreamID,
		Prompt:    prompt,
		ImageURL:  "data:image/png;base64,AAAA",
		ModelName: "test/model",
	}
	require.NoError(t, db.Create(image).Error)
	return image
}

// CountRows counts rows of a model matching an optional condition
func CountRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&count).Error)
	return count
}
