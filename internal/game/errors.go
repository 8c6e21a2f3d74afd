package game

import "errors"

// Kind 錯誤類別，由 API 層轉成 HTTP 狀態碼
type Kind string

const (
	KindNotFound          Kind = "NotFound"
	KindPermissionDenied  Kind = "PermissionDenied"
	KindInvalidMode       Kind = "InvalidMode"
	KindInvalidTransition Kind = "InvalidTransition"
	KindRoundLimitReached Kind = "RoundLimitReached"
	KindAlreadyVoted      Kind = "AlreadyVoted"
	KindSimilarityTooHigh Kind = "SimilarityTooHigh"
	KindNoPlayers         Kind = "NoPlayers"
	KindNoOp              Kind = "NoOp"
	KindInvalidInput      Kind = "InvalidInput"
	KindConflict          Kind = "Conflict"
	KindInternal          Kind = "Internal"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrPlayerNotFound = errors.New("player is not a member of this room")
	ErrBluffNotFound  = errors.New("bluff not found")

	ErrPermissionDenied = errors.New("only the room admin can do that")
	ErrCannotKickAdmin  = errors.New("the admin cannot be kicked")

	ErrInvalidMode       = errors.New("invalid game mode")
	ErrInvalidTransition = errors.New("action not allowed in the current phase")
	ErrRoundLimitReached = errors.New("maximum number of rounds reached")

	ErrAlreadyVoted       = errors.New("you already voted this round")
	ErrAlreadySubmitted   = errors.New("you already wrote a bluff this round")
	ErrSimilarityTooHigh  = errors.New("too close to the real answer, be more creative")
	ErrEmptyBluff         = errors.New("bluff text is required")
	ErrOwnBluff           = errors.New("you cannot vote for your own bluff")
	ErrNoPlayers          = errors.New("room has no players")
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique room code")
)

var kinds = map[error]Kind{
	ErrRoomNotFound:       KindNotFound,
	ErrPlayerNotFound:     KindNotFound,
	ErrBluffNotFound:      KindNotFound,
	ErrPermissionDenied:   KindPermissionDenied,
	ErrCannotKickAdmin:    KindNoOp,
	ErrInvalidMode:        KindInvalidMode,
	ErrInvalidTransition:  KindInvalidTransition,
	ErrRoundLimitReached:  KindRoundLimitReached,
	ErrAlreadyVoted:       KindAlreadyVoted,
	ErrAlreadySubmitted:   KindConflict,
	ErrSimilarityTooHigh:  KindSimilarityTooHigh,
	ErrEmptyBluff:         KindInvalidInput,
	ErrOwnBluff:           KindInvalidInput,
	ErrNoPlayers:          KindNoPlayers,
	ErrCodeSpaceExhausted: KindInternal,
}

// KindOf 回傳錯誤所屬類別，未知錯誤一律視為 Internal
func KindOf(err error) Kind {
	for target, kind := range kinds {
		if errors.Is(err, target) {
			return kind
		}
	}
	return KindInternal
}
