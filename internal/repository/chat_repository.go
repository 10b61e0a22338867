package repository

import (
	"context"

	"code_arena/internal/models"
	"code_arena/internal/storage"
)

type ChatRepository interface {
	Create(ctx context.Context, msg *models.ChatRecord) error
	FindByRoomID(ctx context.Context, roomID string) ([]models.ChatRecord, error)
}

type chatRepository struct {
	db *storage.PostgresDB
}

func NewChatRepository(db *storage.PostgresDB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, msg *models.ChatRecord) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *chatRepository) FindByRoomID(ctx context.Context, roomID string) ([]models.ChatRecord, error) {
	var msgs []models.ChatRecord
	err := r.db.WithContext(ctx).Where("room_id = ?", roomID).Order("timestamp asc").Find(&msgs).Error
	return msgs, err
}
