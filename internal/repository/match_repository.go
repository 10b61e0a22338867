package repository

import (
	"context"

	"code_arena/internal/models"
	"code_arena/internal/storage"
)

type MatchRepository interface {
	Create(ctx context.Context, match *models.MatchRecord) error
	FindByRoomID(ctx context.Context, roomID string) ([]models.MatchRecord, error)
}

type matchRepository struct {
	db *storage.PostgresDB
}

func NewMatchRepository(db *storage.PostgresDB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) Create(ctx context.Context, match *models.MatchRecord) error {
	return r.db.WithContext(ctx).Create(match).Error
}

// FindByRoomID 依開始時間由新到舊列出房間的比賽紀錄
func (r *matchRepository) FindByRoomID(ctx context.Context, roomID string) ([]models.MatchRecord, error) {
	var matches []models.MatchRecord
	err := r.db.WithContext(ctx).Where("room_id = ?", roomID).Order("start_time desc").Find(&matches).Error
	return matches, err
}
