package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"code_arena/internal/api/handlers"
	"code_arena/internal/middleware"
	"code_arena/internal/service"
	"code_arena/pkg/config"
)

func SetupRoutes(r *gin.Engine, services *service.Services, cfg *config.Config) {
	// 初始化 handlers
	roomHandler := handlers.NewRoomHandler(services.Arena)
	wsHandler := handlers.NewWebSocketHandler(services.Dispatcher, cfg.Server.AllowedOrigins, cfg.Arena.SendBuffer)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 基本的健康檢查
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"rooms":       services.Arena.RoomCount(),
			"players":     services.Registry.Len(),
			"connections": services.Hub.Connections(),
		})
	})

	// 房間查詢
	rooms := api.Group("/rooms")
	{
		rooms.GET("", roomHandler.ListRooms)                 // 所有房間快照
		rooms.GET("/:id", roomHandler.GetRoom)               // 單一房間快照
		rooms.GET("/:id/match", roomHandler.GetMatchDetails) // 比賽結束時間

		if services.Repos != nil {
			historyHandler := handlers.NewHistoryHandler(services.Repos)
			rooms.GET("/:id/history", historyHandler.ListMatches)
			rooms.GET("/:id/chat", historyHandler.ListChat)
		}
	}

	// WebSocket 連接點，所有房間事件都經由這裡
	r.GET("/ws", middleware.AuthMiddleware(cfg.Auth.JWTSecret), wsHandler.HandleWebSocket)
}
