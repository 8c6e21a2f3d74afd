package models

import (
	"time"
)

// GameMode 房間目前的遊戲模式
type GameMode string

const (
	ModeSpy   GameMode = "SPY"   // 臥底猜詞
	ModeKalak GameMode = "KALAK" // 唬爛問答
)

// Valid 判斷是否為支援的模式
func (m GameMode) Valid() bool {
	return m == ModeSpy || m == ModeKalak
}

// Phase Kalak 回合內的子階段
type Phase string

const (
	PhaseWriting  Phase = "WRITING"
	PhaseVoting   Phase = "VOTING"
	PhaseResults  Phase = "RESULTS"
	PhaseGameOver Phase = "GAME_OVER"
)

// Room 表示一個遊戲房間，同時擁有兩種模式的回合狀態
type Room struct {
	ID      uint     `gorm:"primaryKey" json:"-"`
	Code    string   `gorm:"size:4;uniqueIndex;not null" json:"code"`
	AdminID uint     `gorm:"not null" json:"admin_id"`
	Mode    GameMode `gorm:"size:10;not null;default:'SPY'" json:"mode"`
	Active  bool     `gorm:"not null;default:false" json:"active"`

	// Spy 模式
	SecretWord string `gorm:"size:200" json:"-"`
	SpyID      *uint  `json:"-"`

	// Kalak 模式
	Question   string `gorm:"type:text" json:"question"`
	RealAnswer string `gorm:"size:200" json:"-"`
	ImageRef   string `gorm:"size:500" json:"image_ref,omitempty"`
	Round      int    `gorm:"not null;default:0" json:"round"`
	MaxRounds  int    `gorm:"not null;default:0" json:"max_rounds"`
	Phase      Phase  `gorm:"size:20;not null;default:'WRITING'" json:"phase"`

	// 房間內遞增序號，用來產生加入順序與唬爛答案編號
	MemberSeq uint `gorm:"not null;default:0" json:"-"`
	BluffSeq  uint `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"` // 由狀態機維護

	Members []RoomMember `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"members"`
	Bluffs  []Bluff      `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`
	Scores  []ScoreEntry `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`
}

// RoomMember 房間成員。Confirmed 與 Ready 兩個旗標即為兩種模式的準備集合
type RoomMember struct {
	ID        uint `gorm:"primaryKey" json:"-"`
	RoomID    uint `gorm:"not null;uniqueIndex:idx_room_members_room_user" json:"-"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_room_members_room_user" json:"user_id"`
	JoinSeq   uint `gorm:"not null" json:"-"`
	Confirmed bool `gorm:"not null;default:false" json:"-"`
	Ready     bool `gorm:"not null;default:false" json:"-"`
}

// Member 依使用者 ID 找出成員
func (r *Room) Member(userID uint) (*RoomMember, bool) {
	for i := range r.Members {
		if r.Members[i].UserID == userID {
			return &r.Members[i], true
		}
	}
	return nil, false
}

// IsMember 判斷使用者是否在房間內
func (r *Room) IsMember(userID uint) bool {
	_, ok := r.Member(userID)
	return ok
}

// Clone 深拷貝整個聚合，讓記憶體儲存庫可以在失敗時丟棄修改
func (r *Room) Clone() *Room {
	c := *r
	if r.SpyID != nil {
		spy := *r.SpyID
		c.SpyID = &spy
	}
	c.Members = append([]RoomMember(nil), r.Members...)
	c.Scores = append([]ScoreEntry(nil), r.Scores...)
	c.Bluffs = make([]Bluff, len(r.Bluffs))
	for i, b := range r.Bluffs {
		b.Voters = append([]BluffVote(nil), b.Voters...)
		c.Bluffs[i] = b
	}
	return &c
}
