package service

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"code_arena/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 64 * 1024 // 編輯器會送整份程式碼
)

// WSClient 代表一個 WebSocket 客戶端連線
type WSClient struct {
	id       string
	conn     *websocket.Conn
	sendChan chan models.Message // 消息發送通道，用於異步傳送消息

	closeOnce sync.Once
	done      chan struct{}
}

// NewWSClient 包裝已升級的 WebSocket 連線
func NewWSClient(conn *websocket.Conn, sendBuffer int) *WSClient {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	return &WSClient{
		id:       uuid.NewString(),
		conn:     conn,
		sendChan: make(chan models.Message, sendBuffer),
		done:     make(chan struct{}),
	}
}

func (c *WSClient) ID() string { return c.id }

// Send 把訊息放進發送佇列；佇列已滿代表客戶端跟不上，直接關閉連線
func (c *WSClient) Send(msg models.Message) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.sendChan <- msg:
		return true
	default:
		log.Warn().Str("module", "ws").Str("client", c.id).Msg("send queue full, closing connection")
		c.Close()
		return false
	}
}

// Close 關閉連線，可重複呼叫
func (c *WSClient) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// Serve 啟動讀寫處理，直到連線關閉；關閉後交由 Arena 清理座位
func (c *WSClient) Serve(d *Dispatcher, sess *Session) {
	go c.writePump()
	c.readPump(d, sess)

	c.Close()
	d.arena.Disconnect(c)
}

// readPump 持續監聽並處理從客戶端接收的消息
func (c *WSClient) readPump(d *Dispatcher, sess *Session) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Str("module", "ws").Str("client", c.id).Err(err).Msg("unexpected close")
			}
			return
		}
		d.Dispatch(sess, message)
	}
}

// writePump 處理向客戶端發送消息的邏輯
func (c *WSClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-c.sendChan:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			messageBytes, err := json.Marshal(message)
			if err != nil {
				log.Error().Str("module", "ws").Str("type", message.Type).Err(err).Msg("message encoding error")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, messageBytes); err != nil {
				c.Close()
				return
			}

		case <-ticker.C:
			// 發送心跳包
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
