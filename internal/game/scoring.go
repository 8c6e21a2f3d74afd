package game

import (
	"slices"

	"party_web/internal/models"
)

const (
	// PointsCorrectAnswer 投中正確答案的得分
	PointsCorrectAnswer = 2

	// PointsDeception 每騙到一位玩家，唬爛作者得分
	PointsDeception = 1
)

// GetOrInit 取得玩家分數，不存在時建立 0 分紀錄
func GetOrInit(room *models.Room, player uint) *models.ScoreEntry {
	for i := range room.Scores {
		if room.Scores[i].UserID == player {
			return &room.Scores[i]
		}
	}
	room.Scores = append(room.Scores, models.ScoreEntry{RoomID: room.ID, UserID: player})
	return &room.Scores[len(room.Scores)-1]
}

// Award 累加分數，delta 只會是正數
func Award(room *models.Room, player uint, delta int) {
	if delta <= 0 {
		return
	}
	GetOrInit(room, player).Points += delta
}

// ResetAll 把房間內所有分數歸零
func ResetAll(room *models.Room) {
	for i := range room.Scores {
		room.Scores[i].Points = 0
	}
}

// Leaderboard 依分數由高到低排序，同分時依玩家 ID 由小到大
func Leaderboard(room *models.Room) []models.ScoreEntry {
	board := slices.Clone(room.Scores)
	slices.SortStableFunc(board, func(a, b models.ScoreEntry) int {
		if a.Points != b.Points {
			return b.Points - a.Points
		}
		switch {
		case a.UserID < b.UserID:
			return -1
		case a.UserID > b.UserID:
			return 1
		}
		return 0
	})
	return board
}

func removeScore(room *models.Room, player uint) {
	room.Scores = slices.DeleteFunc(room.Scores, func(s models.ScoreEntry) bool {
		return s.UserID == player
	})
}
