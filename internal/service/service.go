package service

import (
	"code_arena/internal/repository"
	"code_arena/pkg/config"
)

type Services struct {
	Hub        *Hub
	Registry   *Registry
	Arena      *Arena
	Dispatcher *Dispatcher
	Recorder   MatchRecorder
	Repos      *repository.Repositories // 未啟用資料庫時為 nil
}

// NewServices 組裝所有服務；repos 為 nil 時比賽紀錄不落地
func NewServices(cfg config.ArenaConfig, repos *repository.Repositories) *Services {
	var recorder MatchRecorder = NopRecorder{}
	if repos != nil {
		recorder = NewRecorder(repos.Match, repos.Chat, 1024)
	}

	hub := NewHub()
	registry := NewRegistry()
	arena := NewArena(hub, registry,
		WithRecorder(recorder),
		WithSlotCount(cfg.SlotCount),
		WithChatCapacity(cfg.ChatCapacity),
	)

	return &Services{
		Hub:        hub,
		Registry:   registry,
		Arena:      arena,
		Dispatcher: NewDispatcher(arena),
		Recorder:   recorder,
		Repos:      repos,
	}
}
