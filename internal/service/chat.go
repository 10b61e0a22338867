package service

import (
	"github.com/rs/zerolog/log"

	"code_arena/internal/models"
)

// JoinChat 訂閱房間聊天，並在指定或可推斷隊伍時一併訂閱隊伍聊天。
// 歷史訊息只回放給提出請求的連線：有隊伍時只回放隊伍頻道，否則回放房間頻道。
func (a *Arena) JoinChat(c Client, roomID string, team *models.Team, identity string) bool {
	if c == nil {
		return false
	}
	e := a.lookup(roomID)
	if e == nil {
		return false
	}
	defer e.mu.Unlock()

	if team == nil && identity != "" {
		if t, _, ok := e.room.SeatOf(identity); ok {
			team = &t
		}
	}
	if team != nil && !team.Valid() {
		return false
	}

	a.hub.Subscribe(c, ChatGroup(roomID))
	history := models.ChatHistoryPayload{RoomID: roomID}
	if team != nil {
		a.hub.Subscribe(c, TeamChatGroup(roomID, *team))
		t := *team
		history.Scope = models.ScopeTeam
		history.Team = &t
		history.Messages = e.teamChat[t].Messages()
	} else {
		history.Scope = models.ScopeRoom
		history.Messages = e.roomChat.Messages()
	}
	c.Send(models.NewMessage(models.TypeChatHistory, roomID, history))
	return true
}

// PostChat 把訊息加入對應範圍的緩衝區，並廣播給該範圍的所有訂閱者
func (a *Arena) PostChat(roomID string, team *models.Team, identity, text string) bool {
	if roomID == "" || text == "" {
		return false
	}
	if team != nil && !team.Valid() {
		return false
	}
	e := a.lookup(roomID)
	if e == nil {
		return false
	}
	defer e.mu.Unlock()

	msg := models.ChatMessage{Username: identity, Text: text, Timestamp: a.now()}
	payload := models.ChatBroadcastPayload{RoomID: roomID, Message: msg}
	rec := &models.ChatRecord{RoomID: roomID, Username: identity, Text: text, Timestamp: msg.Timestamp}

	var evicted bool
	if team != nil {
		t := *team
		evicted = e.teamChat[t].Add(msg)
		payload.Scope = models.ScopeTeam
		payload.Team = &t
		rec.Scope, rec.Team = models.ScopeTeam, t.String()
		a.hub.Publish(TeamChatGroup(roomID, t), models.NewMessage(models.TypeChatMessage, roomID, payload))
	} else {
		evicted = e.roomChat.Add(msg)
		payload.Scope = models.ScopeRoom
		rec.Scope = models.ScopeRoom
		a.hub.Publish(ChatGroup(roomID), models.NewMessage(models.TypeChatMessage, roomID, payload))
	}
	if evicted {
		log.Debug().Str("module", "chat").Str("room", roomID).Str("scope", payload.Scope).Msg("chat buffer full, oldest message dropped")
	}

	a.recorder.RecordChat(rec)
	return true
}
