package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"code_arena/internal/middleware"
	"code_arena/internal/service"
)

// WebSocketHandler 處理 WebSocket 連接
type WebSocketHandler struct {
	dispatcher *service.Dispatcher
	upgrader   websocket.Upgrader
	sendBuffer int
}

// NewWebSocketHandler 創建一個新的 WebSocketHandler 實例；
// allowedOrigins 為空時接受所有來源
func NewWebSocketHandler(dispatcher *service.Dispatcher, allowedOrigins []string, sendBuffer int) *WebSocketHandler {
	return &WebSocketHandler{
		dispatcher: dispatcher,
		sendBuffer: sendBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		_, ok := set[r.Header.Get("Origin")]
		return ok
	}
}

// HandleWebSocket 處理 WebSocket 連接請求
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	// 升級 HTTP 連接為 WebSocket 連接
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Str("module", "ws").Err(err).Msg("upgrade failed")
		return
	}

	identity := c.GetString(middleware.ContextIdentity)
	verified := c.GetBool(middleware.ContextVerified)

	client := service.NewWSClient(conn, h.sendBuffer)
	sess := service.NewSession(client, identity, verified)
	log.Info().Str("module", "ws").Str("client", client.ID()).Str("user", identity).Bool("verified", verified).Msg("client connected")

	client.Serve(h.dispatcher, sess)
	log.Info().Str("module", "ws").Str("client", client.ID()).Str("user", sess.Identity()).Msg("client disconnected")
}
