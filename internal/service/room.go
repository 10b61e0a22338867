package service

import (
	"github.com/rs/zerolog/log"

	"code_arena/internal/models"
)

// JoinRoom 讓 identity 進入房間。房間不存在時建立並以 identity 為房主；
// 若 identity 原本在其他房間，會先把它從舊房間的座位上移除。
func (a *Arena) JoinRoom(c Client, roomID, identity string, slotCount int) bool {
	if roomID == "" || identity == "" {
		return false
	}

	e, _ := a.acquire(roomID, identity, slotCount)
	prev := a.registry.Claim(identity, roomID, c)
	a.subscribe(c, RoomGroup(roomID))
	a.broadcastRosterLocked(e)
	e.mu.Unlock()

	a.evict(c, identity, prev, roomID)
	return true
}

// JoinSlot 讓 identity 換到指定座位。先離開本房間中原本的座位，
// 目標座位為空時才坐下；目標已有人時什麼都不做。
// 同一個空位的並發請求依處理順序決定，先處理的成功。
func (a *Arena) JoinSlot(c Client, roomID string, team models.Team, index int, identity string, slotCount int) bool {
	if roomID == "" || identity == "" || !team.Valid() || index < 0 {
		return false
	}

	e, created := a.acquire(roomID, identity, slotCount)
	vacated := e.room.Vacate(identity)
	occupied := e.room.Occupy(team, index, identity)
	prev := a.registry.Claim(identity, roomID, c)
	a.subscribe(c, RoomGroup(roomID))
	if created || vacated || occupied || prev != roomID {
		a.broadcastRosterLocked(e)
	}
	e.mu.Unlock()

	if !occupied {
		log.Debug().Str("module", "arena").Str("room", roomID).Str("user", identity).
			Str("team", team.String()).Int("slot", index).Msg("slot unavailable")
	}

	a.evict(c, identity, prev, roomID)
	return occupied
}

// evict 在 identity 換到 next 之後，把它從 prev 房間移除
func (a *Arena) evict(c Client, identity, prev, next string) {
	if prev == "" || prev == next {
		return
	}
	if c != nil {
		a.hub.UnsubscribeRoom(c, prev)
	}

	e := a.lookup(prev)
	if e == nil {
		return
	}
	defer e.mu.Unlock()

	// 期間若又回到 prev，就不能再把它移除
	if cur, ok := a.registry.RoomOf(identity); ok && cur == prev {
		return
	}
	a.leaveLocked(e, identity)
}

// leaveLocked 清空 identity 的座位；房間空了就刪除，否則廣播名單
func (a *Arena) leaveLocked(e *roomEntry, identity string) {
	e.room.Vacate(identity)
	if e.room.Empty() {
		a.removeLocked(e)
		return
	}
	a.broadcastRosterLocked(e)
}

// ToggleReady 只有座位上的本人能切換準備狀態，其他情況不做任何事
func (a *Arena) ToggleReady(roomID string, team models.Team, index int, identity string) bool {
	e := a.lookup(roomID)
	if e == nil {
		return false
	}
	defer e.mu.Unlock()

	if !e.room.ToggleReady(team, index, identity) {
		return false
	}
	a.broadcastRosterLocked(e)
	return true
}

// TogglePrivacy 只有房主能切換公開狀態。current 為客戶端目前看到的狀態，
// 為 nil 時以伺服器上的狀態為準。
func (a *Arena) TogglePrivacy(roomID, identity string, current *bool) bool {
	e := a.lookup(roomID)
	if e == nil {
		return false
	}
	defer e.mu.Unlock()

	if identity == "" || e.room.Owner != identity {
		return false
	}
	public := e.room.Public
	if current != nil {
		public = *current
	}
	e.room.Public = !public
	a.broadcastRosterLocked(e)
	return true
}

// LeaveRoom 處理主動離開房間
func (a *Arena) LeaveRoom(c Client, roomID, identity string) bool {
	if roomID == "" || identity == "" {
		return false
	}
	a.registry.Release(identity, roomID)
	if c != nil {
		a.hub.UnsubscribeRoom(c, roomID)
	}

	e := a.lookup(roomID)
	if e == nil {
		return false
	}
	defer e.mu.Unlock()

	if cur, ok := a.registry.RoomOf(identity); ok && cur == roomID {
		return false
	}
	a.leaveLocked(e, identity)
	return true
}

// Disconnect 處理連線中斷，與主動離開走相同的流程
func (a *Arena) Disconnect(c Client) {
	identity, roomID, ok := a.registry.ReleaseClient(c)
	a.hub.RemoveClient(c)
	if !ok {
		return
	}

	e := a.lookup(roomID)
	if e == nil {
		return
	}
	defer e.mu.Unlock()

	if cur, ok := a.registry.RoomOf(identity); ok && cur == roomID {
		return
	}
	a.leaveLocked(e, identity)
	log.Info().Str("module", "arena").Str("room", roomID).Str("user", identity).Msg("user disconnected")
}

// DeleteRoom 強制刪除房間，連同計時器、聊天紀錄與所有玩家對應
func (a *Arena) DeleteRoom(roomID string) bool {
	e := a.lookup(roomID)
	if e == nil {
		return false
	}
	defer e.mu.Unlock()

	a.hub.Publish(RoomGroup(roomID), models.NewMessage(models.TypeRoomDeleted, roomID, models.RoomDeletedPayload{RoomID: roomID}))
	a.removeLocked(e)
	return true
}
