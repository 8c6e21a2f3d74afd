package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"party_web/internal/content"
	"party_web/internal/game"
	"party_web/internal/models"
)

var t0 = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

// runRoomRepositoryTests 兩種實作共用同一組行為測試
func runRoomRepositoryTests(t *testing.T, repo RoomRepository) {
	ctx := context.Background()

	t.Run("Create and FindByCode", func(t *testing.T) {
		room := game.NewRoom("CRE1", 1, t0)
		require.NoError(t, repo.Create(ctx, room))
		assert.NotZero(t, room.ID)

		got, err := repo.FindByCode(ctx, "CRE1")
		require.NoError(t, err)
		assert.Equal(t, uint(1), got.AdminID)
		require.Len(t, got.Members, 1)
		require.Len(t, got.Scores, 1)

		exists, err := repo.Exists(ctx, "CRE1")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Create duplicate code", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, game.NewRoom("DUP1", 1, t0)))
		err := repo.Create(ctx, game.NewRoom("DUP1", 2, t0))
		assert.ErrorIs(t, err, ErrDuplicateCode)
	})

	t.Run("FindByCode unknown", func(t *testing.T) {
		_, err := repo.FindByCode(ctx, "NOPE")
		assert.ErrorIs(t, err, game.ErrRoomNotFound)

		exists, err := repo.Exists(ctx, "NOPE")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Update persists the whole aggregate", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, game.NewRoom("UPD1", 1, t0)))

		err := repo.Update(ctx, "UPD1", func(room *models.Room) error {
			game.Join(room, 2, t0)
			game.Join(room, 3, t0)
			if err := game.SwitchMode(room, models.ModeKalak, t0); err != nil {
				return err
			}
			q := content.Question{Question: "Capitale ?", Answer: "Paris"}
			if err := game.StartKalakRound(room, q, 3, t0); err != nil {
				return err
			}
			for i, text := range []string{"lyon", "nice", "brest"} {
				if err := game.SubmitBluff(room, uint(i+1), text, t0); err != nil {
					return err
				}
			}
			return game.CastVote(room, 2, 1, t0)
		})
		require.NoError(t, err)

		got, err := repo.FindByCode(ctx, "UPD1")
		require.NoError(t, err)
		assert.Equal(t, []uint{1, 2, 3}, userIDs(got))
		assert.Equal(t, models.ModeKalak, got.Mode)
		assert.Equal(t, models.PhaseVoting, got.Phase)
		assert.Equal(t, "paris", got.RealAnswer)
		require.Len(t, got.Bluffs, 3)
		assert.Equal(t, "lyon", got.Bluffs[0].Text)
		assert.True(t, got.Bluffs[0].HasVoter(2))
		assert.Equal(t, 1, game.GetScore(got, 1))
		m, _ := got.Member(2)
		assert.True(t, m.Ready)
	})

	t.Run("failed Update leaves no trace", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, game.NewRoom("ROL1", 1, t0)))
		boom := errors.New("boom")

		err := repo.Update(ctx, "ROL1", func(room *models.Room) error {
			game.Join(room, 2, t0)
			game.Award(room, 1, 10)
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := repo.FindByCode(ctx, "ROL1")
		require.NoError(t, err)
		assert.Equal(t, []uint{1}, userIDs(got))
		assert.Equal(t, 0, game.GetScore(got, 1))
	})

	t.Run("Update removing last member deletes room", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, game.NewRoom("DEL1", 1, t0)))

		err := repo.Update(ctx, "DEL1", func(room *models.Room) error {
			_, err := game.Leave(room, 1, t0)
			return err
		})
		require.NoError(t, err)

		_, err = repo.FindByCode(ctx, "DEL1")
		assert.ErrorIs(t, err, game.ErrRoomNotFound)
		err = repo.Update(ctx, "DEL1", func(*models.Room) error { return nil })
		assert.ErrorIs(t, err, game.ErrRoomNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, game.NewRoom("DEL2", 1, t0)))
		require.NoError(t, repo.Delete(ctx, "DEL2"))
		assert.ErrorIs(t, repo.Delete(ctx, "DEL2"), game.ErrRoomNotFound)
	})

	t.Run("returned rooms are detached", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, game.NewRoom("DET1", 1, t0)))

		got, err := repo.FindByCode(ctx, "DET1")
		require.NoError(t, err)
		game.Join(got, 5, t0)

		again, err := repo.FindByCode(ctx, "DET1")
		require.NoError(t, err)
		assert.Len(t, again.Members, 1)
	})
}

func runUserRepositoryTests(t *testing.T, repo UserRepository) {
	ctx := context.Background()

	alice := &models.User{Username: "alice", Password: "hash", AvatarURL: "https://example.com/a.png"}
	require.NoError(t, repo.Create(ctx, alice))
	assert.NotZero(t, alice.ID)

	err := repo.Create(ctx, &models.User{Username: "alice", Password: "other"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	got, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "hash", got.Password)

	_, err = repo.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	bob := &models.User{Username: "bob", Password: "hash"}
	require.NoError(t, repo.Create(ctx, bob))

	users, err := repo.FindByIDs(ctx, []uint{alice.ID, bob.ID, 9999})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func userIDs(room *models.Room) []uint {
	ids := make([]uint, 0, len(room.Members))
	for _, m := range room.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

func TestMemoryRoomRepository(t *testing.T) {
	runRoomRepositoryTests(t, NewMemoryRoomRepository())
}

func TestMemoryUserRepository(t *testing.T) {
	runUserRepositoryTests(t, NewMemoryUserRepository())
}
