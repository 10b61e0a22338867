package service

import "sync"

type session struct {
	roomID string
	client Client
}

// Registry 記錄每個玩家目前所在的房間與連線，每個玩家最多對應一個房間
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]session // identity -> session
	clients  map[string]string  // clientID -> identity
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]session),
		clients:  make(map[string]string),
	}
}

// Claim 把 identity 對應到 roomID 與連線 c，回傳先前對應的房間
func (r *Registry) Claim(identity, roomID string, c Client) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.sessions[identity]
	r.dropClientLocked(identity, prev.client)
	r.sessions[identity] = session{roomID: roomID, client: c}
	if c != nil {
		r.clients[c.ID()] = identity
	}
	return prev.roomID
}

// RoomOf 回傳 identity 目前所在的房間
func (r *Registry) RoomOf(identity string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[identity]
	return s.roomID, ok
}

// Release 只在 identity 仍對應到 roomID 時移除對應
func (r *Registry) Release(identity, roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[identity]; ok && s.roomID == roomID {
		r.deleteLocked(identity, s)
		return true
	}
	return false
}

// ReleaseClient 在連線關閉時移除對應；若 identity 已改用其他連線則不動
func (r *Registry) ReleaseClient(c Client) (identity, roomID string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok = r.clients[c.ID()]
	if !ok {
		return "", "", false
	}
	s := r.sessions[identity]
	if s.client == nil || s.client.ID() != c.ID() {
		delete(r.clients, c.ID())
		return "", "", false
	}
	r.deleteLocked(identity, s)
	return identity, s.roomID, true
}

// ReleaseRoom 移除所有對應到 roomID 的玩家
func (r *Registry) ReleaseRoom(roomID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var released []string
	for id, s := range r.sessions {
		if s.roomID == roomID {
			r.deleteLocked(id, s)
			released = append(released, id)
		}
	}
	return released
}

// Len 回傳目前有對應的玩家數
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) deleteLocked(identity string, s session) {
	delete(r.sessions, identity)
	r.dropClientLocked(identity, s.client)
}

// dropClientLocked 只在索引仍指向 identity 時移除，連線可能已改綁其他身分
func (r *Registry) dropClientLocked(identity string, c Client) {
	if c == nil {
		return
	}
	if r.clients[c.ID()] == identity {
		delete(r.clients, c.ID())
	}
}
