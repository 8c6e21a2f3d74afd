package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"party_web/internal/game"
	"party_web/internal/service"
)

// RoomHandler 處理房間的建立、加入、離開與查詢
type RoomHandler struct {
	roomService   *service.RoomService
	statusService *service.StatusService
	userService   *service.UserService
}

// NewRoomHandler 創建一個新的 RoomHandler 實例
func NewRoomHandler(roomService *service.RoomService, statusService *service.StatusService, userService *service.UserService) *RoomHandler {
	return &RoomHandler{roomService: roomService, statusService: statusService, userService: userService}
}

type JoinRoomInput struct {
	Code string `json:"code" binding:"required,len=4,alphanum"`
}

type KickInput struct {
	PlayerID uint `json:"player_id" binding:"required"`
}

// StatusResponse 輪詢狀態加上玩家顯示資料
type StatusResponse struct {
	game.Status
	Players map[uint]service.PlayerInfo `json:"players"`
}

// CreateRoom 建立房間，建立者成為管理員
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := game.BuildView(room, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// JoinRoom 以房間代碼加入
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input JoinRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	room, err := h.roomService.JoinRoom(c.Request.Context(), input.Code, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := game.BuildView(room, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// LeaveRoom 離開房間
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.roomService.LeaveRoom(c.Request.Context(), c.Param("code"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "left room"})
}

// Kick 管理員踢出玩家
func (h *RoomHandler) Kick(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input KickInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.roomService.Kick(c.Request.Context(), c.Param("code"), userID, input.PlayerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "player kicked"})
}

// GetRoom 回傳呼叫者看到的房間畫面
func (h *RoomHandler) GetRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.statusService.GetView(c.Request.Context(), c.Param("code"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetStatus 輪詢用的狀態，附上排行榜玩家的名稱與頭像
func (h *RoomHandler) GetStatus(c *gin.Context) {
	status, err := h.statusService.GetStatus(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	ids := make([]uint, 0, len(status.Leaderboard))
	for _, e := range status.Leaderboard {
		ids = append(ids, e.PlayerRef)
	}
	players, err := h.userService.Resolve(c.Request.Context(), ids)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: status, Players: players})
}
