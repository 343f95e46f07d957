package repository

import (
	"context"
	"testing"
	"time"

	"mamba-store/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscordAccessGrantAllowsMultipleWindows(t *testing.T) {
	db := newTestDB(t)
	repo := NewDiscordAccessRepository(db)
	ctx := context.Background()
	now := time.Now()

	for _, days := range []int{31, 999} {
		require.NoError(t, repo.Grant(ctx, db, &model.DiscordAccess{
			Email:         "a@x.com",
			DiscordUserID: model.DiscordUserPending,
			ExpiresAt:     now.AddDate(0, 0, days),
		}))
	}

	accesses, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Len(t, accesses, 2)
	for _, a := range accesses {
		assert.NotEmpty(t, a.ID)
	}
}

func TestDiscordAccessFindActiveByEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewDiscordAccessRepository(db)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Grant(ctx, db, &model.DiscordAccess{
		Email:         "a@x.com",
		DiscordUserID: "1234",
		ExpiresAt:     now.AddDate(0, 0, -1),
	}))
	require.NoError(t, repo.Grant(ctx, db, &model.DiscordAccess{
		Email:         "a@x.com",
		DiscordUserID: "1234",
		ExpiresAt:     now.AddDate(0, 0, 31),
	}))

	active, err := repo.FindActiveByEmail(ctx, "a@x.com", now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.True(t, active[0].ExpiresAt.After(now))
}

func TestDiscordAccessLinkUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewDiscordAccessRepository(db)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Grant(ctx, db, &model.DiscordAccess{
		Email:         "a@x.com",
		DiscordUserID: model.DiscordUserPending,
		ExpiresAt:     now.AddDate(0, 0, 31),
	}))
	// expired pending grant must stay pending
	require.NoError(t, repo.Grant(ctx, db, &model.DiscordAccess{
		Email:         "a@x.com",
		DiscordUserID: model.DiscordUserPending,
		ExpiresAt:     now.AddDate(0, 0, -5),
	}))

	linked, err := repo.LinkUser(ctx, "a@x.com", "real-user-id", now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), linked)

	active, err := repo.FindActiveByEmail(ctx, "a@x.com", now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "real-user-id", active[0].DiscordUserID)
}
