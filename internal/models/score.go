package models

// ScoreEntry 每個房間每位玩家一筆分數
type ScoreEntry struct {
	ID     uint `gorm:"primaryKey" json:"-"`
	RoomID uint `gorm:"not null;uniqueIndex:idx_score_entries_room_user" json:"-"`
	UserID uint `gorm:"not null;uniqueIndex:idx_score_entries_room_user" json:"user_id"`
	Points int  `gorm:"not null;default:0" json:"points"`
}
