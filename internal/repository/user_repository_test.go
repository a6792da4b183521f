package repository

import (
	"context"
	"testing"

	"github.com/Thanhbi2612/Dreamlens/internal/errs"
	"github.com/Thanhbi2612/Dreamlens/internal/models"
	"github.com/Thanhbi2612/Dreamlens/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserLookups(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	alice := testutil.CreateLocalUser(t, db, "alice", "secret1")
	bob := testutil.CreateGoogleUser(t, db, "bob")

	byEmail, err := repo.GetByIdentifier(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	byName, err := repo.GetByIdentifier(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	byGoogle, err := repo.GetByGoogleID(ctx, "google-bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, byGoogle.ID)
	assert.False(t, byGoogle.HasPassword())

	_, err = repo.GetByIdentifier(ctx, "carol")
	assert.True(t, errs.IsNotFound(err))

	_, err = repo.GetByID(ctx, 9999)
	assert.True(t, errs.IsNotFound(err))
}

func TestUserExists(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	testutil.CreateLocalUser(t, db, "alice", "secret1")

	ok, err := repo.ExistsByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserUniqueEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	testutil.CreateLocalUser(t, db, "alice", "secret1")

	err := repo.Create(context.Background(), &models.User{
		Email:        "alice@example.com",
		Username:     "alice2",
		AuthProvider: models.AuthProviderLocal,
		IsActive:     true,
	})
	assert.Error(t, err)
}
