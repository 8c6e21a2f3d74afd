package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"party_web/internal/game"
	"party_web/internal/middleware"
	"party_web/internal/repository"
	"party_web/internal/service"
)

const (
	kindBadRequest   = "BadRequest"
	kindUnauthorized = "Unauthorized"
)

var kindStatus = map[game.Kind]int{
	game.KindNotFound:          http.StatusNotFound,
	game.KindPermissionDenied:  http.StatusForbidden,
	game.KindInvalidMode:       http.StatusBadRequest,
	game.KindInvalidTransition: http.StatusConflict,
	game.KindRoundLimitReached: http.StatusConflict,
	game.KindAlreadyVoted:      http.StatusConflict,
	game.KindSimilarityTooHigh: http.StatusUnprocessableEntity,
	game.KindNoPlayers:         http.StatusConflict,
	game.KindNoOp:              http.StatusBadRequest,
	game.KindInvalidInput:      http.StatusBadRequest,
	game.KindConflict:          http.StatusConflict,
	game.KindInternal:          http.StatusInternalServerError,
}

// respondError 依錯誤類別回傳 {"error","kind"}，內部錯誤不把細節交給客戶端
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		abort(c, http.StatusUnauthorized, kindUnauthorized, err.Error())
		return
	case errors.Is(err, repository.ErrDuplicateUsername):
		abort(c, http.StatusConflict, string(game.KindConflict), err.Error())
		return
	}

	kind := game.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		middleware.Logger(c).Error("request failed", "error", err)
		abort(c, status, string(game.KindInternal), "internal server error")
		return
	}
	abort(c, status, string(kind), err.Error())
}

func badRequest(c *gin.Context, err error) {
	abort(c, http.StatusBadRequest, kindBadRequest, err.Error())
}

func abort(c *gin.Context, status int, kind, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "kind": kind})
}

// currentUser 取得登入玩家，缺少時直接回應 401
func currentUser(c *gin.Context) (uint, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		abort(c, http.StatusUnauthorized, kindUnauthorized, "authentication required")
	}
	return id, ok
}
