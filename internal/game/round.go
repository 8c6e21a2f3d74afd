package game

import (
	"strings"
	"time"

	"party_web/internal/content"
	"party_web/internal/models"
)

// SwitchMode 切換遊戲模式。這是硬重置：兩種模式的回合資料、唬爛答案、準備狀態與分數全部清空
func SwitchMode(room *models.Room, target models.GameMode, now time.Time) error {
	if !target.Valid() {
		return ErrInvalidMode
	}

	room.Mode = target
	room.Active = false

	// reset spy
	room.SecretWord = ""
	room.SpyID = nil

	// reset kalak
	room.Question = ""
	room.RealAnswer = ""
	room.ImageRef = ""
	room.Round = 0
	room.Phase = models.PhaseWriting
	room.Bluffs = nil

	for i := range room.Members {
		room.Members[i].Confirmed = false
		room.Members[i].Ready = false
	}
	ResetAll(room)
	touch(room, now)
	return nil
}

// StartSpyRound 開始新的臥底回合，覆蓋上一局
func StartSpyRound(room *models.Room, word string, rnd Rand, now time.Time) error {
	if room.Mode != models.ModeSpy {
		return ErrInvalidMode
	}
	if len(room.Members) == 0 {
		return ErrNoPlayers
	}

	spy := room.Members[rnd.IntN(len(room.Members))].UserID
	room.SecretWord = content.CleanWord(word)
	room.SpyID = &spy
	for i := range room.Members {
		room.Members[i].Confirmed = false
	}
	room.Active = true
	touch(room, now)
	return nil
}

// ConfirmRole 玩家確認已看過自己的詞（或臥底身份），重複確認沒有影響
func ConfirmRole(room *models.Room, player uint, now time.Time) error {
	member, ok := room.Member(player)
	if !ok {
		return ErrPlayerNotFound
	}
	if room.Mode != models.ModeSpy || !room.Active {
		return ErrInvalidTransition
	}
	if member.Confirmed {
		return nil
	}
	member.Confirmed = true
	touch(room, now)
	return nil
}

// RoundLimitReached 判斷 Kalak 是否已經打完所有回合
func RoundLimitReached(room *models.Room, maxRounds int) bool {
	return room.Round >= maxRounds
}

// StartKalakRound 開始下一個 Kalak 回合。
// 回合數已達上限時只把階段改成 GAME_OVER 並回傳 ErrRoundLimitReached，其餘欄位不動
func StartKalakRound(room *models.Room, q content.Question, maxRounds int, now time.Time) error {
	if room.Mode != models.ModeKalak {
		return ErrInvalidMode
	}
	if RoundLimitReached(room, maxRounds) {
		room.Phase = models.PhaseGameOver
		touch(room, now)
		return ErrRoundLimitReached
	}

	room.Question = q.Question
	room.RealAnswer = strings.ToLower(strings.TrimSpace(q.Answer))
	room.ImageRef = q.ImageRef
	room.Round++
	room.MaxRounds = maxRounds
	room.Phase = models.PhaseWriting
	room.Bluffs = nil
	clearReady(room)
	room.Active = true
	touch(room, now)
	return nil
}

// SubmitBluff 玩家在 WRITING 階段提交假答案；所有在場玩家都提交後自動進入 VOTING
func SubmitBluff(room *models.Room, player uint, text string, now time.Time) error {
	member, ok := room.Member(player)
	if !ok {
		return ErrPlayerNotFound
	}
	if !inPhase(room, models.PhaseWriting) {
		return ErrInvalidTransition
	}
	if member.Ready {
		return ErrAlreadySubmitted
	}

	text = normalize(text)
	if text == "" {
		return ErrEmptyBluff
	}
	if TooSimilar(text, room.RealAnswer) {
		return ErrSimilarityTooHigh
	}

	room.BluffSeq++
	room.Bluffs = append(room.Bluffs, models.Bluff{
		RoomID:    room.ID,
		Number:    room.BluffSeq,
		AuthorID:  player,
		Text:      text,
		CreatedAt: now,
	})
	member.Ready = true
	advanceOnQuorum(room)
	touch(room, now)
	return nil
}

// CastVote 玩家在 VOTING 階段投票。choice 為 0 表示投給正確答案
func CastVote(room *models.Room, player, choice uint, now time.Time) error {
	member, ok := room.Member(player)
	if !ok {
		return ErrPlayerNotFound
	}
	if !inPhase(room, models.PhaseVoting) {
		return ErrInvalidTransition
	}
	if member.Ready {
		return ErrAlreadyVoted
	}

	if choice == 0 {
		Award(room, player, PointsCorrectAnswer)
	} else {
		bluff := findBluff(room, choice)
		if bluff == nil {
			return ErrBluffNotFound
		}
		if bluff.AuthorID == player {
			return ErrOwnBluff
		}
		// 作者已離開房間就不再計分
		if room.IsMember(bluff.AuthorID) {
			Award(room, bluff.AuthorID, PointsDeception)
		}
		if !bluff.HasVoter(player) {
			bluff.Voters = append(bluff.Voters, models.BluffVote{
				RoomID:      room.ID,
				BluffNumber: bluff.Number,
				VoterID:     player,
			})
		}
	}

	member.Ready = true
	advanceOnQuorum(room)
	touch(room, now)
	return nil
}

// AdvancePhase 管理員強制推進階段，不等所有人完成
func AdvancePhase(room *models.Room, now time.Time) error {
	if room.Mode != models.ModeKalak || !room.Active {
		return ErrInvalidTransition
	}
	switch room.Phase {
	case models.PhaseWriting:
		room.Phase = models.PhaseVoting
	case models.PhaseVoting:
		room.Phase = models.PhaseResults
	default:
		return ErrInvalidTransition
	}
	clearReady(room)
	touch(room, now)
	return nil
}

// ReadyCount 目前階段已完成動作的人數
func ReadyCount(room *models.Room) int {
	n := 0
	for _, m := range room.Members {
		if m.Ready {
			n++
		}
	}
	return n
}

// advanceOnQuorum 以當下的成員數判斷是否所有人都完成了
func advanceOnQuorum(room *models.Room) {
	if len(room.Members) == 0 || ReadyCount(room) < len(room.Members) {
		return
	}
	switch room.Phase {
	case models.PhaseWriting:
		room.Phase = models.PhaseVoting
	case models.PhaseVoting:
		room.Phase = models.PhaseResults
	default:
		return
	}
	clearReady(room)
}

// recheckQuorum 成員減少後重新檢查，避免有人離開造成回合卡住
func recheckQuorum(room *models.Room) {
	if room.Mode != models.ModeKalak || !room.Active {
		return
	}
	advanceOnQuorum(room)
}

func inPhase(room *models.Room, phase models.Phase) bool {
	return room.Mode == models.ModeKalak && room.Active && room.Phase == phase
}

func clearReady(room *models.Room) {
	for i := range room.Members {
		room.Members[i].Ready = false
	}
}

func findBluff(room *models.Room, number uint) *models.Bluff {
	for i := range room.Bluffs {
		if room.Bluffs[i].Number == number {
			return &room.Bluffs[i]
		}
	}
	return nil
}
