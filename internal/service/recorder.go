package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"code_arena/internal/models"
	"code_arena/internal/repository"
)

// MatchRecorder 接收需要存檔的比賽結果與聊天訊息，實作不可阻塞呼叫端
type MatchRecorder interface {
	RecordMatch(rec *models.MatchRecord)
	RecordChat(rec *models.ChatRecord)
}

// NopRecorder 在沒有資料庫時使用，直接丟棄所有紀錄
type NopRecorder struct{}

func (NopRecorder) RecordMatch(*models.MatchRecord) {}
func (NopRecorder) RecordChat(*models.ChatRecord)   {}

type recordJob struct {
	match *models.MatchRecord
	chat  *models.ChatRecord
}

// Recorder 在背景把紀錄寫入資料庫，佇列滿時丟棄並記錄警告
type Recorder struct {
	matches repository.MatchRepository
	chats   repository.ChatRepository
	queue   chan recordJob
	timeout time.Duration

	closeOnce sync.Once
	done      chan struct{}
	stopped   chan struct{}
}

func NewRecorder(matches repository.MatchRepository, chats repository.ChatRepository, queueSize int) *Recorder {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &Recorder{
		matches: matches,
		chats:   chats,
		queue:   make(chan recordJob, queueSize),
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (r *Recorder) RecordMatch(rec *models.MatchRecord) {
	r.enqueue(recordJob{match: rec})
}

func (r *Recorder) RecordChat(rec *models.ChatRecord) {
	r.enqueue(recordJob{chat: rec})
}

func (r *Recorder) enqueue(job recordJob) {
	select {
	case <-r.done:
		return
	default:
	}
	select {
	case r.queue <- job:
	default:
		log.Warn().Str("module", "recorder").Msg("record queue full, dropping record")
	}
}

// Run 持續寫入佇列中的紀錄，直到 ctx 結束或 Close 被呼叫；結束前會清空佇列
func (r *Recorder) Run(ctx context.Context) {
	defer close(r.stopped)
	for {
		select {
		case job := <-r.queue:
			r.write(job)
		case <-ctx.Done():
			r.drain()
			return
		case <-r.done:
			r.drain()
			return
		}
	}
}

// Close 停止接收新紀錄
func (r *Recorder) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}

// Wait 等待 Run 寫完剩餘的紀錄
func (r *Recorder) Wait() {
	<-r.stopped
}

func (r *Recorder) drain() {
	for {
		select {
		case job := <-r.queue:
			r.write(job)
		default:
			return
		}
	}
}

func (r *Recorder) write(job recordJob) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	switch {
	case job.match != nil:
		if err := r.matches.Create(ctx, job.match); err != nil {
			log.Error().Str("module", "recorder").Str("room", job.match.RoomID).Err(err).Msg("save match failed")
		}
	case job.chat != nil:
		if err := r.chats.Create(ctx, job.chat); err != nil {
			log.Error().Str("module", "recorder").Str("room", job.chat.RoomID).Err(err).Msg("save chat failed")
		}
	}
}
