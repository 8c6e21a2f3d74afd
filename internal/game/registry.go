package game

import (
	"time"

	"party_web/internal/models"
)

// NewRoom 建立只有管理員一人的房間，預設為未開始的 SPY 模式
func NewRoom(code string, admin uint, now time.Time) *models.Room {
	room := &models.Room{
		Code:      code,
		AdminID:   admin,
		Mode:      models.ModeSpy,
		Phase:     models.PhaseWriting,
		CreatedAt: now,
	}
	addMember(room, admin)
	touch(room, now)
	return room
}

// Join 加入房間；重複加入不會有任何效果，但仍會確保分數存在
func Join(room *models.Room, player uint, now time.Time) {
	if !room.IsMember(player) {
		addMember(room, player)
	}
	GetOrInit(room, player)
	touch(room, now)
}

// Leave 讓玩家離開房間，回傳房間是否已經沒人（呼叫端應刪除房間）
func Leave(room *models.Room, player uint, now time.Time) (empty bool, err error) {
	if !room.IsMember(player) {
		return false, ErrPlayerNotFound
	}
	removeMember(room, player)
	if len(room.Members) == 0 {
		return true, nil
	}
	if room.AdminID == player {
		room.AdminID = room.Members[0].UserID
	}
	recheckQuorum(room)
	touch(room, now)
	return false, nil
}

// Kick 由管理員把其他玩家移出房間
func Kick(room *models.Room, requester, target uint, now time.Time) error {
	if requester != room.AdminID {
		return ErrPermissionDenied
	}
	if target == room.AdminID {
		return ErrCannotKickAdmin
	}
	if !room.IsMember(target) {
		return ErrPlayerNotFound
	}
	removeMember(room, target)
	recheckQuorum(room)
	touch(room, now)
	return nil
}

// RequireMember 確認玩家屬於房間
func RequireMember(room *models.Room, player uint) error {
	if !room.IsMember(player) {
		return ErrPlayerNotFound
	}
	return nil
}

// RequireAdmin 確認玩家是房間管理員
func RequireAdmin(room *models.Room, player uint) error {
	if err := RequireMember(room, player); err != nil {
		return err
	}
	if room.AdminID != player {
		return ErrPermissionDenied
	}
	return nil
}

func addMember(room *models.Room, player uint) {
	room.MemberSeq++
	room.Members = append(room.Members, models.RoomMember{
		RoomID:  room.ID,
		UserID:  player,
		JoinSeq: room.MemberSeq,
	})
	GetOrInit(room, player)
}

func removeMember(room *models.Room, player uint) {
	members := room.Members[:0]
	for _, m := range room.Members {
		if m.UserID != player {
			members = append(members, m)
		}
	}
	room.Members = members
	removeScore(room, player)

	// 臥底離開後本局已無意義
	if room.Mode == models.ModeSpy && room.SpyID != nil && *room.SpyID == player {
		room.Active = false
		room.SpyID = nil
	}
}
