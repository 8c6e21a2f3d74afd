package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"party_web/internal/game"
	"party_web/internal/models"
	"party_web/internal/service"
)

// RoundHandler 兩種遊戲模式的回合動作
type RoundHandler struct {
	roundService *service.RoundService
}

func NewRoundHandler(roundService *service.RoundService) *RoundHandler {
	return &RoundHandler{roundService: roundService}
}

type SwitchModeInput struct {
	Mode models.GameMode `json:"mode" binding:"required,oneof=SPY KALAK"`
}

type StartKalakInput struct {
	MaxRounds int `json:"max_rounds" binding:"omitempty,min=1,max=50"`
}

// BluffInput 空白內容交給 game 判斷，回傳 ErrEmptyBluff
type BluffInput struct {
	Text string `json:"text" binding:"max=200"`
}

// VoteInput choice_id 為 0 代表正確答案，因此不能用 required
type VoteInput struct {
	ChoiceID *uint `json:"choice_id" binding:"required"`
}

func (h *RoundHandler) SwitchMode(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input SwitchModeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errors.Join(game.ErrInvalidMode, err))
		return
	}
	h.done(c, h.roundService.SwitchMode(c.Request.Context(), c.Param("code"), userID, input.Mode))
}

func (h *RoundHandler) StartSpy(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	h.done(c, h.roundService.StartSpyRound(c.Request.Context(), c.Param("code"), userID))
}

func (h *RoundHandler) ConfirmRole(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	h.done(c, h.roundService.ConfirmRole(c.Request.Context(), c.Param("code"), userID))
}

// StartKalak body 可省略，省略時使用預設回合數
func (h *RoundHandler) StartKalak(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input StartKalakInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	h.done(c, h.roundService.StartKalakRound(c.Request.Context(), c.Param("code"), userID, input.MaxRounds))
}

func (h *RoundHandler) SubmitBluff(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input BluffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	h.done(c, h.roundService.SubmitBluff(c.Request.Context(), c.Param("code"), userID, input.Text))
}

func (h *RoundHandler) CastVote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input VoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	h.done(c, h.roundService.CastVote(c.Request.Context(), c.Param("code"), userID, *input.ChoiceID))
}

func (h *RoundHandler) Advance(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	h.done(c, h.roundService.AdvancePhase(c.Request.Context(), c.Param("code"), userID))
}

func (h *RoundHandler) done(c *gin.Context, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
