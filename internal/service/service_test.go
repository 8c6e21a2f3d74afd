package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"party_web/internal/content"
	"party_web/internal/game"
	"party_web/internal/models"
	"party_web/internal/repository"
	"party_web/internal/utils"
)

var t0 = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

// stubGenerator 依 prompt 前綴回傳臥底詞或題目
type stubGenerator struct {
	calls atomic.Int32
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls.Add(1)
	if strings.HasPrefix(prompt, "word") {
		return "Une Pizza.", nil
	}
	return "Quelle est la capitale de la France ?|Paris", nil
}

type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

type fixture struct {
	services *Services
	repos    *repository.Repositories
	gen      *stubGenerator
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gen := &stubGenerator{}
	source := content.NewSource(
		content.NewPromptProvider(gen, "word {category}", "question {theme}"),
		content.Options{Rand: firstRand{}},
		logger,
	)
	if opts.Now == nil {
		opts.Now = func() time.Time { return t0 }
	}
	if opts.Rand == nil {
		opts.Rand = firstRand{}
	}
	opts.Logger = logger

	repos := repository.NewMemoryRepositories()
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	return &fixture{
		services: NewServices(repos, source, tokens, opts),
		repos:    repos,
		gen:      gen,
	}
}

// roomWith 建立房間並讓其他玩家加入，回傳代碼
func (f *fixture) roomWith(t *testing.T, admin uint, others ...uint) string {
	t.Helper()
	ctx := context.Background()
	room, err := f.services.Room.CreateRoom(ctx, admin)
	require.NoError(t, err)
	for _, p := range others {
		_, err := f.services.Room.JoinRoom(ctx, room.Code, p)
		require.NoError(t, err)
	}
	return room.Code
}

func (f *fixture) room(t *testing.T, code string) *models.Room {
	t.Helper()
	room, err := f.repos.Room.FindByCode(context.Background(), code)
	require.NoError(t, err)
	return room
}

func sequence(codes ...string) func() string {
	var mu sync.Mutex
	i := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		code := codes[i%len(codes)]
		i++
		return code
	}
}

func TestCreateRoomRetriesOnCollision(t *testing.T) {
	f := newFixture(t, Options{NewCode: sequence("AAAA", "AAAA", "BBBB")})
	ctx := context.Background()

	first, err := f.services.Room.CreateRoom(ctx, 1)
	require.NoError(t, err)
	second, err := f.services.Room.CreateRoom(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, "AAAA", first.Code)
	assert.Equal(t, "BBBB", second.Code)
}

func TestCreateRoomCodeSpaceExhausted(t *testing.T) {
	f := newFixture(t, Options{NewCode: sequence("AAAA")})
	ctx := context.Background()

	_, err := f.services.Room.CreateRoom(ctx, 1)
	require.NoError(t, err)

	_, err = f.services.Room.CreateRoom(ctx, 2)
	assert.ErrorIs(t, err, game.ErrCodeSpaceExhausted)
	assert.Equal(t, game.KindInternal, game.KindOf(err))
}

func TestJoinRoom(t *testing.T) {
	f := newFixture(t, Options{NewCode: sequence("WXYZ")})
	ctx := context.Background()
	code := f.roomWith(t, 1)

	room, err := f.services.Room.JoinRoom(ctx, " wxyz ", 2)
	require.NoError(t, err)
	assert.True(t, room.IsMember(2))

	_, err = f.services.Room.JoinRoom(ctx, code, 2)
	require.NoError(t, err)
	assert.Len(t, f.room(t, code).Members, 2)

	_, err = f.services.Room.JoinRoom(ctx, "ZZZZ", 3)
	assert.ErrorIs(t, err, game.ErrRoomNotFound)
}

func TestLeaveLastMemberDestroysRoom(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	code := f.roomWith(t, 1, 2)

	require.NoError(t, f.services.Room.LeaveRoom(ctx, code, 1))
	assert.Equal(t, uint(2), f.room(t, code).AdminID)

	require.NoError(t, f.services.Room.LeaveRoom(ctx, code, 2))

	_, err := f.services.Room.JoinRoom(ctx, code, 3)
	assert.ErrorIs(t, err, game.ErrRoomNotFound)
	_, err = f.services.Status.GetStatus(ctx, code)
	assert.ErrorIs(t, err, game.ErrRoomNotFound)
	assert.Zero(t, f.services.Room.locks.size())
}

func TestKick(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	code := f.roomWith(t, 1, 2, 3)

	assert.ErrorIs(t, f.services.Room.Kick(ctx, code, 2, 3), game.ErrPermissionDenied)
	assert.ErrorIs(t, f.services.Room.Kick(ctx, code, 1, 1), game.ErrCannotKickAdmin)
	require.NoError(t, f.services.Room.Kick(ctx, code, 1, 3))

	room := f.room(t, code)
	assert.False(t, room.IsMember(3))
	assert.Len(t, room.Scores, 2)
}

func TestAdminOnlyActions(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	code := f.roomWith(t, 1, 2)
	round := f.services.Round

	assert.ErrorIs(t, round.SwitchMode(ctx, code, 2, models.ModeKalak), game.ErrPermissionDenied)
	assert.ErrorIs(t, round.StartSpyRound(ctx, code, 2), game.ErrPermissionDenied)
	assert.ErrorIs(t, round.StartKalakRound(ctx, code, 2, 0), game.ErrPermissionDenied)
	assert.ErrorIs(t, round.AdvancePhase(ctx, code, 2), game.ErrPermissionDenied)
	assert.ErrorIs(t, round.StartSpyRound(ctx, code, 9), game.ErrPlayerNotFound)
	assert.Zero(t, f.gen.calls.Load())
}

func TestSpyRound(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	code := f.roomWith(t, 1, 2, 3)

	require.NoError(t, f.services.Round.StartSpyRound(ctx, code, 1))
	require.NoError(t, f.services.Round.ConfirmRole(ctx, code, 2))

	room := f.room(t, code)
	assert.True(t, room.Active)
	assert.Equal(t, "Une Pizza", room.SecretWord)
	require.NotNil(t, room.SpyID)
	assert.Equal(t, uint(1), *room.SpyID)

	status, err := f.services.Status.GetStatus(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, game.SpyPhaseActive, status.Phase)

	view, err := f.services.Status.GetView(ctx, code, 1)
	require.NoError(t, err)
	assert.True(t, view.Spy.IsSpy)
	assert.Empty(t, view.Spy.Word)
}

func TestStartRoundWrongModeSkipsProvider(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	code := f.roomWith(t, 1)

	assert.ErrorIs(t, f.services.Round.StartKalakRound(ctx, code, 1, 0), game.ErrInvalidMode)
	require.NoError(t, f.services.Round.SwitchMode(ctx, code, 1, models.ModeKalak))
	assert.ErrorIs(t, f.services.Round.StartSpyRound(ctx, code, 1), game.ErrInvalidMode)
	assert.ErrorIs(t, f.services.Round.SwitchMode(ctx, code, 1, "POKER"), game.ErrInvalidMode)
	assert.Zero(t, f.gen.calls.Load())
}

func TestKalakGame(t *testing.T) {
	f := newFixture(t, Options{MaxRounds: 1})
	ctx := context.Background()
	code := f.roomWith(t, 1, 2, 3)
	round := f.services.Round

	require.NoError(t, round.SwitchMode(ctx, code, 1, models.ModeKalak))
	require.NoError(t, round.StartKalakRound(ctx, code, 1, 0))

	room := f.room(t, code)
	assert.Equal(t, "paris", room.RealAnswer)
	assert.Equal(t, 1, room.MaxRounds)

	assert.ErrorIs(t, round.SubmitBluff(ctx, code, 2, "PARIS"), game.ErrSimilarityTooHigh)
	require.NoError(t, round.SubmitBluff(ctx, code, 1, "Lyon"))
	require.NoError(t, round.SubmitBluff(ctx, code, 2, "Marseille"))
	require.NoError(t, round.SubmitBluff(ctx, code, 3, "Berlin"))

	status, err := f.services.Status.GetStatus(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, string(models.PhaseVoting), status.Phase)

	require.NoError(t, round.CastVote(ctx, code, 1, 0))
	assert.ErrorIs(t, round.CastVote(ctx, code, 1, 0), game.ErrAlreadyVoted)
	require.NoError(t, round.CastVote(ctx, code, 2, 1))
	require.NoError(t, round.AdvancePhase(ctx, code, 1))

	status, err = f.services.Status.GetStatus(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, string(models.PhaseResults), status.Phase)
	assert.Equal(t, uint(1), status.Leaderboard[0].PlayerRef)
	assert.Equal(t, 3, status.Leaderboard[0].Points)

	calls := f.gen.calls.Load()
	err = round.StartKalakRound(ctx, code, 1, 0)
	assert.ErrorIs(t, err, game.ErrRoundLimitReached)
	assert.Equal(t, calls, f.gen.calls.Load())

	room = f.room(t, code)
	assert.Equal(t, models.PhaseGameOver, room.Phase)
	assert.Equal(t, 1, room.Round)
	assert.Equal(t, "paris", room.RealAnswer)
}

func TestConcurrentVotesCountOnce(t *testing.T) {
	const players = 20
	f := newFixture(t, Options{})
	ctx := context.Background()

	others := make([]uint, 0, players-1)
	for p := uint(2); p <= players; p++ {
		others = append(others, p)
	}
	code := f.roomWith(t, 1, others...)
	round := f.services.Round
	require.NoError(t, round.SwitchMode(ctx, code, 1, models.ModeKalak))
	require.NoError(t, round.StartKalakRound(ctx, code, 1, 3))

	var wg sync.WaitGroup
	for p := uint(1); p <= players; p++ {
		wg.Add(1)
		go func(p uint) {
			defer wg.Done()
			assert.NoError(t, round.SubmitBluff(ctx, code, p, fmt.Sprintf("bluff numéro %d", p)))
		}(p)
	}
	wg.Wait()

	room := f.room(t, code)
	require.Equal(t, models.PhaseVoting, room.Phase)
	require.Len(t, room.Bluffs, players)

	var accepted, rejected atomic.Int32
	for p := uint(1); p <= players; p++ {
		for range 3 {
			wg.Add(1)
			go func(p uint) {
				defer wg.Done()
				err := round.CastVote(ctx, code, p, 0)
				switch {
				case err == nil:
					accepted.Add(1)
				case game.KindOf(err) == game.KindAlreadyVoted || game.KindOf(err) == game.KindInvalidTransition:
					rejected.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(p)
		}
	}
	wg.Wait()

	assert.Equal(t, int32(players), accepted.Load())
	assert.Equal(t, int32(players*2), rejected.Load())

	room = f.room(t, code)
	assert.Equal(t, models.PhaseResults, room.Phase)
	for p := uint(1); p <= players; p++ {
		assert.Equal(t, game.PointsCorrectAnswer, game.GetScore(room, p), "player %d", p)
	}
}

func TestConcurrentRoomsAreIndependent(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	var wg sync.WaitGroup
	codes := make([]string, 10)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			room, err := f.services.Room.CreateRoom(ctx, uint(i+1))
			if assert.NoError(t, err) {
				codes[i] = room.Code
			}
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
	}
}

func TestUserService(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	users := f.services.User

	alice, err := users.Register(ctx, "alice", "secret123", "https://example.com/a.png")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", alice.Password)

	_, err = users.Register(ctx, "alice", "another1", "")
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)

	token, user, err := users.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, alice.ID, user.ID)

	_, _, err = users.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = users.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	infos, err := users.Resolve(ctx, []uint{alice.ID, 77})
	require.NoError(t, err)
	assert.Equal(t, "alice", infos[alice.ID].Username)
	assert.Equal(t, "https://example.com/a.png", infos[alice.ID].AvatarURL)
	assert.Equal(t, "player-77", infos[77].Username)
}

func TestRoomLocksRelease(t *testing.T) {
	locks := NewRoomLocks()

	unlockA := locks.Lock("AAAA")
	unlockB := locks.RLock("BBBB")
	unlockB2 := locks.RLock("BBBB")
	assert.Equal(t, 2, locks.size())

	unlockA()
	unlockB()
	assert.Equal(t, 1, locks.size())
	unlockB2()
	assert.Zero(t, locks.size())
}
