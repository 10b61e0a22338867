package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"code_arena/internal/models"
	"code_arena/internal/service"
)

// RoomHandler 提供房間狀態的唯讀查詢
type RoomHandler struct {
	arena *service.Arena
}

// NewRoomHandler 創建一個新的 RoomHandler 實例
func NewRoomHandler(arena *service.Arena) *RoomHandler {
	return &RoomHandler{arena: arena}
}

// ListRooms 回傳所有房間的快照，以房間 ID 為鍵；
// 帶 public=true 時只回傳仍在大廳的公開房間
func (h *RoomHandler) ListRooms(c *gin.Context) {
	if c.Query("public") == "true" {
		out := make(map[string]models.RoomSnapshot)
		for _, room := range h.arena.PublicRooms() {
			out[room.ID] = room
		}
		c.JSON(http.StatusOK, out)
		return
	}
	c.JSON(http.StatusOK, h.arena.Rooms())
}

// GetRoom 處理獲取房間訊息的請求
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, ok := h.arena.Room(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "房間不存在"})
		return
	}
	c.JSON(http.StatusOK, room)
}

// GetMatchDetails 回傳比賽結束時間，房間不存在或尚未開始時為 null
func (h *RoomHandler) GetMatchDetails(c *gin.Context) {
	c.JSON(http.StatusOK, models.MatchDetailsPayload{EndTime: h.arena.MatchDetails(c.Param("id"))})
}
