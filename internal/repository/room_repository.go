package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"party_web/internal/game"
	"party_web/internal/models"
	"party_web/internal/storage"
)

// ErrDuplicateCode 房間代碼已被使用，呼叫端應換一個代碼重試
var ErrDuplicateCode = errors.New("room code already in use")

// RoomRepository 以房間代碼存取整個房間聚合（成員、唬爛答案、投票、分數）
type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	FindByCode(ctx context.Context, code string) (*models.Room, error)
	// Update 在交易內讀出房間交給 fn 修改後寫回；fn 回傳錯誤時不寫入任何變更。
	// 修改後沒有成員的房間會連同其資料一併刪除
	Update(ctx context.Context, code string, fn func(room *models.Room) error) error
	Delete(ctx context.Context, code string) error
	Exists(ctx context.Context, code string) (bool, error)
}

type roomRepository struct {
	db *storage.PostgresDB
}

func NewRoomRepository(db *storage.PostgresDB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(room).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateCode
			}
			return fmt.Errorf("create room %s: %w", room.Code, err)
		}
		return saveChildren(tx, room)
	})
}

func (r *roomRepository) FindByCode(ctx context.Context, code string) (*models.Room, error) {
	return loadRoom(r.db.WithContext(ctx), code, false)
}

func (r *roomRepository) Update(ctx context.Context, code string, fn func(room *models.Room) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := loadRoom(tx, code, true)
		if err != nil {
			return err
		}
		if err := fn(room); err != nil {
			return err
		}
		if len(room.Members) == 0 {
			return deleteRoom(tx, room.ID)
		}
		if err := tx.Omit(clause.Associations).Save(room).Error; err != nil {
			return fmt.Errorf("save room %s: %w", code, err)
		}
		if err := deleteChildren(tx, room.ID); err != nil {
			return err
		}
		return saveChildren(tx, room)
	})
}

func (r *roomRepository) Delete(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Select("id").Where("code = ?", code).First(&room).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return game.ErrRoomNotFound
			}
			return fmt.Errorf("find room %s: %w", code, err)
		}
		return deleteRoom(tx, room.ID)
	})
}

func (r *roomRepository) Exists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Room{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count rooms: %w", err)
	}
	return count > 0, nil
}

func loadRoom(tx *gorm.DB, code string, forUpdate bool) (*models.Room, error) {
	q := tx
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var room models.Room
	if err := q.Where("code = ?", code).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, game.ErrRoomNotFound
		}
		return nil, fmt.Errorf("find room %s: %w", code, err)
	}

	if err := tx.Where("room_id = ?", room.ID).Order("join_seq asc").Find(&room.Members).Error; err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}
	if err := tx.Where("room_id = ?", room.ID).Order("number asc").Find(&room.Bluffs).Error; err != nil {
		return nil, fmt.Errorf("load bluffs: %w", err)
	}
	var votes []models.BluffVote
	if err := tx.Where("room_id = ?", room.ID).Order("id asc").Find(&votes).Error; err != nil {
		return nil, fmt.Errorf("load votes: %w", err)
	}
	for _, v := range votes {
		for i := range room.Bluffs {
			if room.Bluffs[i].Number == v.BluffNumber {
				room.Bluffs[i].Voters = append(room.Bluffs[i].Voters, v)
			}
		}
	}
	if err := tx.Where("room_id = ?", room.ID).Order("id asc").Find(&room.Scores).Error; err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}
	return &room, nil
}

// saveChildren 子資料一律重新寫入，順序即為 slice 順序
func saveChildren(tx *gorm.DB, room *models.Room) error {
	members := make([]models.RoomMember, len(room.Members))
	for i, m := range room.Members {
		m.ID, m.RoomID = 0, room.ID
		members[i] = m
	}
	scores := make([]models.ScoreEntry, len(room.Scores))
	for i, s := range room.Scores {
		s.ID, s.RoomID = 0, room.ID
		scores[i] = s
	}
	bluffs := make([]models.Bluff, len(room.Bluffs))
	var votes []models.BluffVote
	for i, b := range room.Bluffs {
		for _, v := range b.Voters {
			v.ID, v.RoomID, v.BluffNumber = 0, room.ID, b.Number
			votes = append(votes, v)
		}
		b.ID, b.RoomID, b.Voters = 0, room.ID, nil
		bluffs[i] = b
	}

	if len(members) > 0 {
		if err := tx.Create(&members).Error; err != nil {
			return fmt.Errorf("save members: %w", err)
		}
	}
	if len(scores) > 0 {
		if err := tx.Create(&scores).Error; err != nil {
			return fmt.Errorf("save scores: %w", err)
		}
	}
	if len(bluffs) > 0 {
		if err := tx.Create(&bluffs).Error; err != nil {
			return fmt.Errorf("save bluffs: %w", err)
		}
	}
	if len(votes) > 0 {
		if err := tx.Create(&votes).Error; err != nil {
			return fmt.Errorf("save votes: %w", err)
		}
	}
	return nil
}

func deleteChildren(tx *gorm.DB, roomID uint) error {
	for _, m := range []interface{}{&models.BluffVote{}, &models.Bluff{}, &models.ScoreEntry{}, &models.RoomMember{}} {
		if err := tx.Where("room_id = ?", roomID).Delete(m).Error; err != nil {
			return fmt.Errorf("delete room children: %w", err)
		}
	}
	return nil
}

func deleteRoom(tx *gorm.DB, roomID uint) error {
	if err := deleteChildren(tx, roomID); err != nil {
		return err
	}
	if err := tx.Delete(&models.Room{}, roomID).Error; err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}
