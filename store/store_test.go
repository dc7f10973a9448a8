package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRepo(t *testing.T) Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "scout.db"))
	require.NoError(t, err)
	return repo
}

func sample(room, opponent string) *BattleReport {
	return &BattleReport{
		SessionID:    "11111111-2222-3333-4444-555555555555",
		RoomID:       room,
		SelfPlayer:   "Ash",
		Opponent:     opponent,
		Winner:       "Ash",
		Turns:        24,
		SelfTeam:     "Pikachu,Snorlax",
		OpponentTeam: "Garchomp,Blissey",
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	report := sample("battle-gen9ou-1", "Gary")
	require.NoError(t, repo.Create(ctx, report))
	require.NotZero(t, report.ID)

	got, err := repo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, "battle-gen9ou-1", got.RoomID)
	assert.Equal(t, "Gary", got.Opponent)
	assert.Equal(t, 24, got.Turns)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetMissing(t *testing.T) {
	repo := openTestRepo(t)
	_, err := repo.GetByID(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRecent(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, sample("battle-gen9ou-1", "Gary")))
	}

	reports, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, reports, 3)

	// Non-positive limits fall back to the default page.
	reports, err = repo.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, reports, 5)
}

func TestListByOpponent(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, sample("battle-1", "Gary")))
	require.NoError(t, repo.Create(ctx, sample("battle-2", "Misty")))
	require.NoError(t, repo.Create(ctx, sample("battle-3", "Gary")))

	reports, err := repo.ListByOpponent(ctx, "Gary")
	require.NoError(t, err)
	require.Len(t, reports, 2)
	for _, r := range reports {
		assert.Equal(t, "Gary", r.Opponent)
	}
}

func TestDelete(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	report := sample("battle-1", "Gary")
	require.NoError(t, repo.Create(ctx, report))

	require.NoError(t, repo.Delete(ctx, report.ID))
	_, err := repo.GetByID(ctx, report.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, report.ID), ErrNotFound)
}
