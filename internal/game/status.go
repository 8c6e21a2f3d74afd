package game

import (
	"time"

	"party_web/internal/models"
)

// SPY 模式沒有子階段，對外以房間是否進行中表示
const (
	SpyPhaseActive   = "ACTIVE"
	SpyPhaseInactive = "INACTIVE"
)

// LeaderboardEntry 排行榜中的一筆
type LeaderboardEntry struct {
	PlayerRef uint `json:"player_ref"`
	Points    int  `json:"points"`
	IsReady   bool `json:"is_ready"`
}

// Status 輪詢用的精簡狀態，客戶端比對 UpdatedAt 決定是否重新抓完整畫面
type Status struct {
	Code        string             `json:"code"`
	Mode        models.GameMode    `json:"mode"`
	Active      bool               `json:"active"`
	Phase       string             `json:"phase"`
	Round       int                `json:"round"`
	MaxRounds   int                `json:"max_rounds"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// BuildStatus 純讀取投影，不會修改房間
func BuildStatus(room *models.Room) Status {
	board := Leaderboard(room)
	entries := make([]LeaderboardEntry, 0, len(board))
	for _, s := range board {
		entries = append(entries, LeaderboardEntry{
			PlayerRef: s.UserID,
			Points:    s.Points,
			IsReady:   isReady(room, s.UserID),
		})
	}

	return Status{
		Code:        room.Code,
		Mode:        room.Mode,
		Active:      room.Active,
		Phase:       PhaseName(room),
		Round:       room.Round,
		MaxRounds:   room.MaxRounds,
		Leaderboard: entries,
		UpdatedAt:   room.UpdatedAt,
	}
}

// PhaseName 回傳對外顯示的階段名稱
func PhaseName(room *models.Room) string {
	if room.Mode == models.ModeKalak {
		return string(room.Phase)
	}
	if room.Active {
		return SpyPhaseActive
	}
	return SpyPhaseInactive
}

func isReady(room *models.Room, player uint) bool {
	m, ok := room.Member(player)
	if !ok {
		return false
	}
	if room.Mode == models.ModeSpy {
		return m.Confirmed
	}
	return m.Ready
}
