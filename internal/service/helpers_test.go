package service

import (
	"sync"
	"testing"
	"time"

	"code_arena/internal/models"
)

// fakeClient 記錄所有收到的訊息
type fakeClient struct {
	id   string
	mu   sync.Mutex
	msgs []models.Message
	full bool
}

func newFakeClient(id string) *fakeClient {
	return &fakeClient{id: id}
}

func (c *fakeClient) ID() string { return c.id }

func (c *fakeClient) Send(msg models.Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return false
	}
	c.msgs = append(c.msgs, msg)
	return true
}

// Messages 回傳指定類型的訊息，typ 為空時回傳全部
func (c *fakeClient) Messages(typ string) []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.Message
	for _, m := range c.msgs {
		if typ == "" || m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

func (c *fakeClient) Last(typ string) (models.Message, bool) {
	msgs := c.Messages(typ)
	if len(msgs) == 0 {
		return models.Message{}, false
	}
	return msgs[len(msgs)-1], true
}

func (c *fakeClient) Reset() {
	c.mu.Lock()
	c.msgs = nil
	c.mu.Unlock()
}

// manualTimer 只在測試呼叫 Fire 時執行
type manualTimer struct {
	mu      sync.Mutex
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Fire 模擬計時器到期；已停止的計時器不會執行
func (t *manualTimer) Fire() {
	t.mu.Lock()
	if t.stopped || t.fired {
		t.mu.Unlock()
		return
	}
	t.fired = true
	t.mu.Unlock()
	t.f()
}

// RunCallback 直接執行回呼，模擬 Stop 來不及阻止已觸發的計時器
func (t *manualTimer) RunCallback() { t.f() }

func (t *manualTimer) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) Last() *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.timers) == 0 {
		return nil
	}
	return s.timers[len(s.timers)-1]
}

func (s *manualScheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

type fakeRecorder struct {
	mu      sync.Mutex
	matches []*models.MatchRecord
	chats   []*models.ChatRecord
}

func (r *fakeRecorder) RecordMatch(rec *models.MatchRecord) {
	r.mu.Lock()
	r.matches = append(r.matches, rec)
	r.mu.Unlock()
}

func (r *fakeRecorder) RecordChat(rec *models.ChatRecord) {
	r.mu.Lock()
	r.chats = append(r.chats, rec)
	r.mu.Unlock()
}

func (r *fakeRecorder) Matches() []*models.MatchRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.MatchRecord(nil), r.matches...)
}

func (r *fakeRecorder) Chats() []*models.ChatRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.ChatRecord(nil), r.chats...)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testEnv struct {
	arena     *Arena
	hub       *Hub
	registry  *Registry
	scheduler *manualScheduler
	recorder  *fakeRecorder
	clock     *testClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		hub:       NewHub(),
		registry:  NewRegistry(),
		scheduler: &manualScheduler{},
		recorder:  &fakeRecorder{},
		clock:     &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	env.arena = NewArena(env.hub, env.registry,
		WithScheduler(env.scheduler),
		WithRecorder(env.recorder),
		WithClock(env.clock.Now),
	)
	return env
}

// seat 讓玩家入座並可選擇直接準備
func (env *testEnv) seat(t *testing.T, c Client, roomID string, team models.Team, index int, identity string, ready bool) {
	t.Helper()
	if !env.arena.JoinSlot(c, roomID, team, index, identity, 4) {
		t.Fatalf("seat %s at %s%d in %s failed", identity, team, index, roomID)
	}
	if ready && !env.arena.ToggleReady(roomID, team, index, identity) {
		t.Fatalf("toggle ready for %s failed", identity)
	}
}

func roster(t *testing.T, msg models.Message) models.RoomSnapshot {
	t.Helper()
	snap, ok := msg.Data.(models.RoomSnapshot)
	if !ok {
		t.Fatalf("message %s carries %T, not a room snapshot", msg.Type, msg.Data)
	}
	return snap
}

func (h *Hub) Members(key GroupKey) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[key])
}

func (h *Hub) IsMember(c Client, key GroupKey) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.groups[key][c.ID()]
	return ok
}

func (b *chatBuffer) Len() int { return b.size }

func (b *chatBuffer) Cap() int { return len(b.buf) }
