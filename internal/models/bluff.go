package models

import "time"

// Bluff 玩家在 WRITING 階段寫下的假答案
type Bluff struct {
	ID        uint        `gorm:"primaryKey" json:"-"`
	RoomID    uint        `gorm:"not null;uniqueIndex:idx_bluffs_room_number" json:"-"`
	Number    uint        `gorm:"not null;uniqueIndex:idx_bluffs_room_number" json:"id"` // 投票用的選項編號，0 保留給正確答案
	AuthorID  uint        `gorm:"not null" json:"author_id"`
	Text      string      `gorm:"size:200;not null" json:"text"`
	CreatedAt time.Time   `json:"created_at"`
	Voters    []BluffVote `gorm:"-" json:"voters"`
}

// BluffVote 記錄誰投給了哪個唬爛答案
type BluffVote struct {
	ID          uint `gorm:"primaryKey" json:"-"`
	RoomID      uint `gorm:"not null;uniqueIndex:idx_bluff_votes_room_bluff_voter" json:"-"`
	BluffNumber uint `gorm:"not null;uniqueIndex:idx_bluff_votes_room_bluff_voter" json:"-"`
	VoterID     uint `gorm:"not null;uniqueIndex:idx_bluff_votes_room_bluff_voter" json:"voter_id"`
}

// HasVoter 判斷玩家是否已投給這個答案
func (b *Bluff) HasVoter(userID uint) bool {
	for _, v := range b.Voters {
		if v.VoterID == userID {
			return true
		}
	}
	return false
}
