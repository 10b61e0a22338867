package service

import (
	"sync"

	"code_arena/internal/models"
)

// Client 代表一個可以接收推送訊息的連線
type Client interface {
	ID() string
	// Send 不可阻塞；佇列已滿或連線已關閉時回傳 false
	Send(msg models.Message) bool
}

// GroupKind 區分廣播群組的種類
type GroupKind int

const (
	GroupRoom       GroupKind = iota // 房間大廳
	GroupChat                        // 房間聊天
	GroupTeamChat                    // 隊伍聊天
	GroupProblemset                  // 隊伍題目集
	GroupEditor                      // 隊伍某一題的編輯器
)

// GroupKey 唯一標識一個廣播群組
type GroupKey struct {
	Kind      GroupKind
	RoomID    string
	Team      models.Team
	ProblemID string
}

func RoomGroup(roomID string) GroupKey {
	return GroupKey{Kind: GroupRoom, RoomID: roomID}
}

func ChatGroup(roomID string) GroupKey {
	return GroupKey{Kind: GroupChat, RoomID: roomID}
}

func TeamChatGroup(roomID string, team models.Team) GroupKey {
	return GroupKey{Kind: GroupTeamChat, RoomID: roomID, Team: team}
}

func ProblemsetGroup(roomID string, team models.Team) GroupKey {
	return GroupKey{Kind: GroupProblemset, RoomID: roomID, Team: team}
}

func EditorGroup(roomID string, team models.Team, problemID string) GroupKey {
	return GroupKey{Kind: GroupEditor, RoomID: roomID, Team: team, ProblemID: problemID}
}

// Hub 依群組管理連線，並只把訊息送給群組成員
type Hub struct {
	mu          sync.RWMutex
	groups      map[GroupKey]map[string]Client
	memberships map[string]map[GroupKey]struct{} // clientID -> 所屬群組
}

func NewHub() *Hub {
	return &Hub{
		groups:      make(map[GroupKey]map[string]Client),
		memberships: make(map[string]map[GroupKey]struct{}),
	}
}

// Subscribe 把連線加入群組，重複加入不會有副作用
func (h *Hub) Subscribe(c Client, key GroupKey) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members := h.groups[key]
	if members == nil {
		members = make(map[string]Client)
		h.groups[key] = members
	}
	members[c.ID()] = c

	keys := h.memberships[c.ID()]
	if keys == nil {
		keys = make(map[GroupKey]struct{})
		h.memberships[c.ID()] = keys
	}
	keys[key] = struct{}{}
}

// UnsubscribeRoom 把連線移出某房間的所有群組
func (h *Hub) UnsubscribeRoom(c Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for key := range h.memberships[c.ID()] {
		if key.RoomID == roomID {
			h.unsubscribeLocked(c.ID(), key)
		}
	}
}

// RemoveClient 把連線移出所有群組，連線關閉時呼叫
func (h *Hub) RemoveClient(c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for key := range h.memberships[c.ID()] {
		h.unsubscribeLocked(c.ID(), key)
	}
	delete(h.memberships, c.ID())
}

// DropRoom 刪除房間的所有群組
func (h *Hub) DropRoom(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for key, members := range h.groups {
		if key.RoomID != roomID {
			continue
		}
		for id := range members {
			h.unsubscribeLocked(id, key)
		}
	}
}

func (h *Hub) unsubscribeLocked(clientID string, key GroupKey) {
	if members, ok := h.groups[key]; ok {
		delete(members, clientID)
		if len(members) == 0 {
			delete(h.groups, key)
		}
	}
	if keys, ok := h.memberships[clientID]; ok {
		delete(keys, key)
		if len(keys) == 0 {
			delete(h.memberships, clientID)
		}
	}
}

// Publish 廣播給群組內所有連線，回傳成功送出的數量
func (h *Hub) Publish(key GroupKey, msg models.Message) int {
	return h.PublishExcept(key, "", msg)
}

// PublishExcept 廣播給群組內除了 exceptID 之外的連線
func (h *Hub) PublishExcept(key GroupKey, exceptID string, msg models.Message) int {
	h.mu.RLock()
	targets := make([]Client, 0, len(h.groups[key]))
	for id, c := range h.groups[key] {
		if id != exceptID {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range targets {
		if c.Send(msg) {
			sent++
		}
	}
	return sent
}

// Connections 回傳目前至少訂閱一個群組的連線數
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.memberships)
}
