package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Thanhbi2612/Dreamlens/internal/errs"
	"github.com/Thanhbi2612/Dreamlens/internal/models"
	"github.com/Thanhbi2612/Dreamlens/internal/testutil"
	"github.com/Thanhbi2612/Dreamlens/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDreamListOrdering(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewDreamRepository(db)
	ctx := context.Background()
	user := testutil.CreateLocalUser(t, db, "alice", "secret1")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	old := testutil.CreateDream(t, db, user.ID, "old", base, false, false)
	newer := testutil.CreateDream(t, db, user.ID, "newer", base.Add(time.Hour), false, false)
	pinned := testutil.CreateDream(t, db, user.ID, "pinned", base.Add(-time.Hour), true, false)
	testutil.CreateDream(t, db, user.ID, "archived", base.Add(2*time.Hour), false, true)

	testutil.CreateImage(t, db, user.ID, &old.ID, "a")
	testutil.CreateImage(t, db, user.ID, &old.ID, "b")
	testutil.CreateImage(t, db, user.ID, nil, "orphan")

	dreams, total, err := repo.ListByUser(ctx, user.ID, false, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, dreams, 3)
	assert.Equal(t, []uint{pinned.ID, newer.ID, old.ID}, []uint{dreams[0].ID, dreams[1].ID, dreams[2].ID})
	assert.Equal(t, int64(2), dreams[2].ImageCount)
	assert.Equal(t, int64(0), dreams[0].ImageCount)

	dreams, total, err = repo.ListByUser(ctx, user.ID, true, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, dreams, 4)
}

func TestDreamListPaging(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewDreamRepository(db)
	ctx := context.Background()
	user := testutil.CreateLocalUser(t, db, "alice", "secret1")

	// identical timestamps fall back to id order
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []uint
	for i := 0; i < 5; i++ {
		ids = append(ids, testutil.CreateDream(t, db, user.ID, "d", at, false, false).ID)
	}

	first, total, err := repo.ListByUser(ctx, user.ID, false, 0, 2)
	require.NoError(t, err)
	second, _, err := repo.ListByUser(ctx, user.ID, false, 2, 2)
	require.NoError(t, err)
	last, _, err := repo.ListByUser(ctx, user.ID, false, 4, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(5), total)
	assert.Equal(t, []uint{ids[0], ids[1]}, []uint{first[0].ID, first[1].ID})
	assert.Equal(t, []uint{ids[2], ids[3]}, []uint{second[0].ID, second[1].ID})
	require.Len(t, last, 1)
	assert.Equal(t, ids[4], last[0].ID)
}

func TestDreamOwnership(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewDreamRepository(db)
	ctx := context.Background()
	alice := testutil.CreateLocalUser(t, db, "alice", "secret1")
	bob := testutil.CreateLocalUser(t, db, "bob", "secret1")
	dream := testutil.CreateDream(t, db, alice.ID, "mine", time.Now(), false, false)

	_, err := repo.GetByIDForUser(ctx, dream.ID, bob.ID, true)
	assert.True(t, errs.IsNotFound(err))

	_, err = repo.Update(ctx, dream.ID, bob.ID, DreamUpdate{Title: utils.Some("stolen")})
	assert.True(t, errs.IsNotFound(err))

	deleted, err := repo.Delete(ctx, dream.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, int64(1), testutil.CountRows(t, db, &models.Dream{}, ""))
}

func TestDreamGetWithImages(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewDreamRepository(db)
	ctx := context.Background()
	user := testutil.CreateLocalUser(t, db, "alice", "secret1")
	dream := testutil.CreateDream(t, db, user.ID, "d", time.Now(), false, false)
	first := testutil.CreateImage(t, db, user.ID, &dream.ID, "first")
	second := testutil.CreateImage(t, db, user.ID, &dream.ID, "second")

	got, err := repo.GetByIDForUser(ctx, dream.ID, user.ID, true)
	require.NoError(t, err)
	require.Len(t, got.Images, 2)
	assert.Equal(t, first.ID, got.Images[0].ID)
	assert.Equal(t, second.ID, got.Images[1].ID)
	assert.Equal(t, int64(2), got.ImageCount)

	plain, err := repo.GetByIDForUser(ctx, dream.ID, user.ID, false)
	require.NoError(t, err)
	assert.Empty(t, plain.Images)
	assert.Equal(t, int64(2), plain.ImageCount)
}

func TestDreamPartialUpdate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewDreamRepository(db)
	ctx := context.Background()
	user := testutil.CreateLocalUser(t, db, "alice", "secret1")

	desc := "flying"
	dream := &models.Dream{UserID: user.ID, Title: "t", Description: &desc}
	require.NoError(t, repo.Create(ctx, dream))

	got, err := repo.Update(ctx, dream.ID, user.ID, DreamUpdate{IsPinned: utils.Some(true)})
	require.NoError(t, err)
	assert.True(t, got.IsPinned)
	assert.Equal(t, "t", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "flying", *got.Description)

	got, err = repo.Update(ctx, dream.ID, user.ID, DreamUpdate{Description: utils.Some[*string](nil)})
	require.NoError(t, err)
	assert.Nil(t, got.Description)
	assert.True(t, got.IsPinned)

	got, err = repo.Update(ctx, dream.ID, user.ID, DreamUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
}

func TestDreamTogglePin(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewDreamRepository(db)
	ctx := context.Background()
	user := testutil.CreateLocalUser(t, db, "alice", "secret1")
	dream := testutil.CreateDream(t, db, user.ID, "d", time.Now(), false, false)

	got, err := repo.TogglePin(ctx, dream.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPinned)

	got, err = repo.TogglePin(ctx, dream.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPinned)
}

func TestDreamDeleteRemovesImages(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewDreamRepository(db)
	ctx := context.Background()
	user := testutil.CreateLocalUser(t, db, "alice", "secret1")
	dream := testutil.CreateDream(t, db, user.ID, "d", time.Now(), false, false)
	other := testutil.CreateDream(t, db, user.ID, "keep", time.Now(), false, false)
	testutil.CreateImage(t, db, user.ID, &dream.ID, "gone")
	testutil.CreateImage(t, db, user.ID, &other.ID, "kept")
	testutil.CreateImage(t, db, user.ID, nil, "orphan")

	deleted, err := repo.Delete(ctx, dream.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	assert.Equal(t, int64(0), testutil.CountRows(t, db, &models.GeneratedImage{}, "dream_id = ?", dream.ID))
	assert.Equal(t, int64(2), testutil.CountRows(t, db, &models.GeneratedImage{}, ""))
	assert.Equal(t, int64(1), testutil.CountRows(t, db, &models.Dream{}, ""))

	deleted, err = repo.Delete(ctx, dream.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
