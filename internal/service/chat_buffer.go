package service

import "code_arena/internal/models"

// DefaultChatCapacity 是每個聊天範圍保留的訊息上限
const DefaultChatCapacity = 500

// chatBuffer 是固定容量的 FIFO，超過容量時先丟最舊的訊息
type chatBuffer struct {
	buf   []models.ChatMessage
	start int
	size  int
}

func newChatBuffer(capacity int) *chatBuffer {
	if capacity <= 0 {
		capacity = DefaultChatCapacity
	}
	return &chatBuffer{buf: make([]models.ChatMessage, capacity)}
}

// Add 加入一筆訊息，回傳是否擠掉了最舊的訊息
func (b *chatBuffer) Add(msg models.ChatMessage) bool {
	if b.size < len(b.buf) {
		b.buf[(b.start+b.size)%len(b.buf)] = msg
		b.size++
		return false
	}
	b.buf[b.start] = msg
	b.start = (b.start + 1) % len(b.buf)
	return true
}

// Messages 依時間順序回傳所有訊息的副本
func (b *chatBuffer) Messages() []models.ChatMessage {
	out := make([]models.ChatMessage, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.buf[(b.start+i)%len(b.buf)]
	}
	return out
}
