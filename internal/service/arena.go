package service

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"code_arena/internal/models"
)

const (
	DefaultSlotCount = 4
	maxSlotCount     = 16
)

type editorKey struct {
	team      models.Team
	problemID string
}

// roomEntry 是單一房間的互斥邊界，所有對該房間的操作都在 mu 內依序執行
type roomEntry struct {
	mu       sync.Mutex
	room     *models.Room
	closed   bool // 已從房間表移除，等待中的操作需重新查表
	timer    Timer
	timerGen uint64
	roomChat *chatBuffer
	teamChat [models.TeamCount]*chatBuffer
	editor   map[editorKey]models.EditorUpdatePayload
}

// Arena 是房間狀態唯一的擁有者，外部只能透過方法操作
type Arena struct {
	mu    sync.RWMutex
	rooms map[string]*roomEntry

	hub      *Hub
	registry *Registry

	scheduler    Scheduler
	recorder     MatchRecorder
	now          func() time.Time
	slotCount    int
	chatCapacity int
}

// Option 調整 Arena 的行為
type Option func(*Arena)

func WithScheduler(s Scheduler) Option { return func(a *Arena) { a.scheduler = s } }

func WithRecorder(r MatchRecorder) Option { return func(a *Arena) { a.recorder = r } }

func WithClock(now func() time.Time) Option { return func(a *Arena) { a.now = now } }

func WithSlotCount(n int) Option {
	return func(a *Arena) {
		if n > 0 && n <= maxSlotCount {
			a.slotCount = n
		}
	}
}

func WithChatCapacity(n int) Option {
	return func(a *Arena) {
		if n > 0 {
			a.chatCapacity = n
		}
	}
}

func NewArena(hub *Hub, registry *Registry, opts ...Option) *Arena {
	a := &Arena{
		rooms:        make(map[string]*roomEntry),
		hub:          hub,
		registry:     registry,
		scheduler:    NewScheduler(),
		recorder:     NopRecorder{},
		now:          time.Now,
		slotCount:    DefaultSlotCount,
		chatCapacity: DefaultChatCapacity,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Arena) newEntry(room *models.Room) *roomEntry {
	e := &roomEntry{
		room:     room,
		roomChat: newChatBuffer(a.chatCapacity),
		editor:   make(map[editorKey]models.EditorUpdatePayload),
	}
	for _, t := range models.Teams {
		e.teamChat[t] = newChatBuffer(a.chatCapacity)
	}
	return e
}

// resolveSlotCount 以客戶端提供的座位數為準，不合理時使用設定值
func (a *Arena) resolveSlotCount(n int) int {
	if n <= 0 || n > maxSlotCount {
		return a.slotCount
	}
	return n
}

// acquire 取得並鎖定房間。owner 不為空時，房間不存在就以 owner 為房主建立。
// 回傳的 created 表示房間是這次建立的。呼叫端負責 e.mu.Unlock()。
func (a *Arena) acquire(roomID, owner string, slotCount int) (e *roomEntry, created bool) {
	for {
		a.mu.RLock()
		e = a.rooms[roomID]
		a.mu.RUnlock()

		if e == nil {
			if owner == "" {
				return nil, false
			}
			a.mu.Lock()
			e = a.rooms[roomID]
			if e == nil {
				e = a.newEntry(models.NewRoom(roomID, owner, a.resolveSlotCount(slotCount)))
				a.rooms[roomID] = e
				created = true
				log.Info().Str("module", "arena").Str("room", roomID).Str("owner", owner).Int("slots", e.room.SlotCount()).Msg("room created")
			}
			a.mu.Unlock()
		}

		e.mu.Lock()
		if !e.closed {
			return e, created
		}
		e.mu.Unlock()
		created = false
	}
}

// lookup 取得並鎖定已存在的房間，不存在時回傳 nil
func (a *Arena) lookup(roomID string) *roomEntry {
	if roomID == "" {
		return nil
	}
	e, _ := a.acquire(roomID, "", 0)
	return e
}

// removeLocked 把房間從房間表移除並釋放所有相關資源，呼叫時需持有 e.mu
func (a *Arena) removeLocked(e *roomEntry) {
	roomID := e.room.ID
	a.cancelTimerLocked(e)
	e.closed = true

	a.mu.Lock()
	if a.rooms[roomID] == e {
		delete(a.rooms, roomID)
	}
	a.mu.Unlock()

	released := a.registry.ReleaseRoom(roomID)
	a.hub.DropRoom(roomID)
	log.Info().Str("module", "arena").Str("room", roomID).Int("released", len(released)).Msg("room removed")
}

func (a *Arena) subscribe(c Client, key GroupKey) {
	if c != nil {
		a.hub.Subscribe(c, key)
	}
}

func (a *Arena) broadcastRosterLocked(e *roomEntry) {
	a.hub.Publish(RoomGroup(e.room.ID), models.NewMessage(models.TypeRoomUpdate, e.room.ID, e.room.Snapshot()))
}

// Rooms 回傳所有房間的快照，以房間 ID 為鍵
func (a *Arena) Rooms() map[string]models.RoomSnapshot {
	a.mu.RLock()
	entries := make([]*roomEntry, 0, len(a.rooms))
	for _, e := range a.rooms {
		entries = append(entries, e)
	}
	a.mu.RUnlock()

	out := make(map[string]models.RoomSnapshot, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.closed {
			out[e.room.ID] = e.room.Snapshot()
		}
		e.mu.Unlock()
	}
	return out
}

// PublicRooms 回傳仍在大廳、且設為公開的房間，依房間 ID 排序
func (a *Arena) PublicRooms() []models.RoomSnapshot {
	var out []models.RoomSnapshot
	for _, s := range a.Rooms() {
		if s.Public && s.Status == models.RoomStatusLobby {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Room 回傳單一房間的快照
func (a *Arena) Room(roomID string) (models.RoomSnapshot, bool) {
	e := a.lookup(roomID)
	if e == nil {
		return models.RoomSnapshot{}, false
	}
	defer e.mu.Unlock()
	return e.room.Snapshot(), true
}

// RoomCount 回傳目前的房間數
func (a *Arena) RoomCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.rooms)
}

// Shutdown 取消所有進行中的計時器，服務關閉時呼叫
func (a *Arena) Shutdown() {
	a.mu.RLock()
	entries := make([]*roomEntry, 0, len(a.rooms))
	for _, e := range a.rooms {
		entries = append(entries, e)
	}
	a.mu.RUnlock()

	for _, e := range entries {
		e.mu.Lock()
		a.cancelTimerLocked(e)
		e.mu.Unlock()
	}
}
