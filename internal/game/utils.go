package game

import (
	crand "crypto/rand"
	"math/big"
	"math/rand/v2"
	"time"

	"party_web/internal/models"
)

const (
	// RoomCodeLength 房間代碼長度
	RoomCodeLength = 4

	// RoomCodeChars 去掉容易混淆的字元
	RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// MaxCodeAttempts 產生唯一代碼的最大嘗試次數
	MaxCodeAttempts = 64
)

// Rand 抽象化隨機來源，測試時可注入固定種子
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand 使用 math/rand/v2 的全域來源，可並行使用
var DefaultRand Rand = globalRand{}

// GenerateRoomCode creates a random room code
func GenerateRoomCode() string {
	code := make([]byte, RoomCodeLength)
	for i := range RoomCodeLength {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(RoomCodeChars))))
		if err != nil {
			code[i] = RoomCodeChars[rand.IntN(len(RoomCodeChars))]
			continue
		}
		code[i] = RoomCodeChars[n.Int64()]
	}
	return string(code)
}

func touch(room *models.Room, now time.Time) {
	room.UpdatedAt = now
}
