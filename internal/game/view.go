package game

import (
	"hash/fnv"
	"math/rand/v2"
	"time"

	"party_web/internal/models"
)

// MemberView 大廳成員列表
type MemberView struct {
	PlayerRef uint `json:"player_ref"`
	IsAdmin   bool `json:"is_admin"`
	IsReady   bool `json:"is_ready"`
}

// SpyView 臥底不會看到詞
type SpyView struct {
	IsSpy     bool   `json:"is_spy"`
	Word      string `json:"word,omitempty"`
	Confirmed bool   `json:"confirmed"`
}

// Option 投票選項，ID 為 0 的是正確答案
type Option struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// RevealedBluff 結果階段公開的唬爛答案
type RevealedBluff struct {
	ID       uint   `json:"id"`
	AuthorID uint   `json:"author_id"`
	Text     string `json:"text"`
	Voters   []uint `json:"voters"`
}

// KalakView Kalak 模式的個人畫面
type KalakView struct {
	Question   string          `json:"question"`
	ImageRef   string          `json:"image_ref,omitempty"`
	Round      int             `json:"round"`
	MaxRounds  int             `json:"max_rounds"`
	Phase      models.Phase    `json:"phase"`
	HasActed   bool            `json:"has_acted"`
	ReadyCount int             `json:"ready_count"`
	MyBluff    string          `json:"my_bluff,omitempty"`
	MyScore    int             `json:"my_score"`
	Options    []Option        `json:"options,omitempty"`
	RealAnswer string          `json:"real_answer,omitempty"`
	Bluffs     []RevealedBluff `json:"bluffs,omitempty"`
}

// View 單一玩家看到的完整房間畫面
type View struct {
	Code      string          `json:"code"`
	Mode      models.GameMode `json:"mode"`
	Active    bool            `json:"active"`
	AdminRef  uint            `json:"admin_ref"`
	IsAdmin   bool            `json:"is_admin"`
	Members   []MemberView    `json:"members"`
	Spy       *SpyView        `json:"spy,omitempty"`
	Kalak     *KalakView      `json:"kalak,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BuildView 產生玩家個人畫面，玩家必須是房間成員
func BuildView(room *models.Room, player uint) (View, error) {
	me, ok := room.Member(player)
	if !ok {
		return View{}, ErrPlayerNotFound
	}

	view := View{
		Code:      room.Code,
		Mode:      room.Mode,
		Active:    room.Active,
		AdminRef:  room.AdminID,
		IsAdmin:   room.AdminID == player,
		Members:   make([]MemberView, 0, len(room.Members)),
		UpdatedAt: room.UpdatedAt,
	}
	for _, m := range room.Members {
		view.Members = append(view.Members, MemberView{
			PlayerRef: m.UserID,
			IsAdmin:   m.UserID == room.AdminID,
			IsReady:   isReady(room, m.UserID),
		})
	}

	if !room.Active && room.Phase != models.PhaseGameOver {
		return view, nil
	}

	switch room.Mode {
	case models.ModeSpy:
		isSpy := room.SpyID != nil && *room.SpyID == player
		view.Spy = &SpyView{IsSpy: isSpy, Confirmed: me.Confirmed}
		if !isSpy {
			view.Spy.Word = room.SecretWord
		}
	case models.ModeKalak:
		view.Kalak = kalakView(room, me)
	}
	return view, nil
}

func kalakView(room *models.Room, me *models.RoomMember) *KalakView {
	kv := &KalakView{
		Question:   room.Question,
		ImageRef:   room.ImageRef,
		Round:      room.Round,
		MaxRounds:  room.MaxRounds,
		Phase:      room.Phase,
		HasActed:   me.Ready,
		ReadyCount: ReadyCount(room),
		MyScore:    GetScore(room, me.UserID),
	}
	for _, b := range room.Bluffs {
		if b.AuthorID == me.UserID {
			kv.MyBluff = b.Text
		}
	}

	switch room.Phase {
	case models.PhaseVoting:
		kv.Options = votingOptions(room)
	case models.PhaseResults, models.PhaseGameOver:
		kv.RealAnswer = room.RealAnswer
		kv.Bluffs = make([]RevealedBluff, 0, len(room.Bluffs))
		for _, b := range room.Bluffs {
			rb := RevealedBluff{ID: b.Number, AuthorID: b.AuthorID, Text: b.Text, Voters: make([]uint, 0, len(b.Voters))}
			for _, v := range b.Voters {
				rb.Voters = append(rb.Voters, v.VoterID)
			}
			kv.Bluffs = append(kv.Bluffs, rb)
		}
	}
	return kv
}

// GetScore 讀取分數，不會建立紀錄
func GetScore(room *models.Room, player uint) int {
	for _, s := range room.Scores {
		if s.UserID == player {
			return s.Points
		}
	}
	return 0
}

// votingOptions 每回合固定順序的洗牌，輪詢時選項不會跳動
func votingOptions(room *models.Room) []Option {
	options := make([]Option, 0, len(room.Bluffs)+1)
	for _, b := range room.Bluffs {
		options = append(options, Option{ID: b.Number, Text: b.Text})
	}
	options = append(options, Option{ID: 0, Text: room.RealAnswer})

	h := fnv.New64a()
	h.Write([]byte(room.Code))
	rnd := rand.New(rand.NewPCG(h.Sum64(), uint64(room.Round)))
	rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}
