package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"code_arena/internal/repository"
)

// HistoryHandler 查詢已存檔的比賽與聊天紀錄
type HistoryHandler struct {
	repos *repository.Repositories
}

func NewHistoryHandler(repos *repository.Repositories) *HistoryHandler {
	return &HistoryHandler{repos: repos}
}

func (h *HistoryHandler) ListMatches(c *gin.Context) {
	matches, err := h.repos.Match.FindByRoomID(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Error().Str("module", "http").Str("room", c.Param("id")).Err(err).Msg("list matches")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法查詢比賽紀錄"})
		return
	}
	c.JSON(http.StatusOK, matches)
}

func (h *HistoryHandler) ListChat(c *gin.Context) {
	msgs, err := h.repos.Chat.FindByRoomID(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Error().Str("module", "http").Str("room", c.Param("id")).Err(err).Msg("list chat")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法查詢聊天紀錄"})
		return
	}
	c.JSON(http.StatusOK, msgs)
}
