package models

import (
	"encoding/json"
	"time"
)

// 客戶端送來的事件名稱
const (
	EventJoinRoom        = "joinRoom"
	EventJoinSlot        = "joinSlot"
	EventToggleReady     = "toggleReady"
	EventTogglePrivacy   = "togglePrivacy"
	EventStartGame       = "startGame"
	EventGetMatchDetails = "getMatchDetails"
	EventFinishGame      = "finishGame"
	EventJoinChat        = "joinChat"
	EventChatMessage     = "chatMessage"
	EventJoinProblemRoom = "joinProblemRoom"
	EventJoinProblemset  = "joinProblemset"
	EventEditorChange    = "editorChange"
	EventMarkSolved      = "markSolved"
	EventDisconnectRoom  = "disconnectRoom"
	EventDeleteRoom      = "deleteRoom"
)

// 伺服器推送給客戶端的訊息類型
const (
	TypeRoomUpdate    = "roomUpdate"
	TypeNavigate      = "navigateToProblemset"
	TypeMatchDetails  = "matchDetails"
	TypeTeamFinished  = "teamFinishedUpdate"
	TypeMatchEnd      = "matchEnd"
	TypeChatHistory   = "chatHistory"
	TypeChatMessage   = "chatMessage"
	TypeEditorUpdate  = "editorUpdate"
	TypeSolvedProblem = "solvedProblem"
	TypeRoomDeleted   = "roomDeleted"
)

// 比賽結束原因
const (
	ReasonTimeUp       = "time_up"
	ReasonBothFinished = "both_teams_finished"
)

// 聊天範圍
const (
	ScopeRoom = "room"
	ScopeTeam = "team"
)

// Event 是客戶端送來的原始訊框
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// EventPayload 涵蓋所有事件可能攜帶的欄位，缺少的欄位維持零值
type EventPayload struct {
	RoomID    string `json:"roomId"`
	Username  string `json:"username"`
	Team      *Team  `json:"team,omitempty"`
	TeamID    *Team  `json:"teamId,omitempty"`
	SlotIndex *int   `json:"slotIndex,omitempty"`
	SlotCount int    `json:"slotCount"`
	IsPublic  *bool  `json:"isPublic,omitempty"`
	Time      int    `json:"time"` // 分鐘
	Text      string `json:"text"`
	ProblemID string `json:"problemId"`
	Code      string `json:"code"`
	Source    string `json:"source"`
}

// TeamOf 回傳事件指定的隊伍，"team" 與 "teamId" 皆可
func (p EventPayload) TeamOf() (Team, bool) {
	if p.Team != nil {
		return *p.Team, true
	}
	if p.TeamID != nil {
		return *p.TeamID, true
	}
	return 0, false
}

// Message 是推送給客戶端的訊息
type Message struct {
	Type      string    `json:"type"`
	RoomID    string    `json:"room_id,omitempty"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage 建立一則帶有時間戳的推送訊息
func NewMessage(typ, roomID string, data any) Message {
	return Message{
		Type:      typ,
		RoomID:    roomID,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// ChatMessage 是聊天緩衝區中的一筆訊息
type ChatMessage struct {
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"ts"`
}

type NavigatePayload struct {
	RoomID string       `json:"roomId"`
	Room   RoomSnapshot `json:"room"`
}

type MatchDetailsPayload struct {
	EndTime *time.Time `json:"endTime"`
}

type TeamFinishedPayload struct {
	Team       Team      `json:"teamId"`
	FinishTime time.Time `json:"finishTime"`
}

type MatchEndPayload struct {
	Reason string `json:"reason"`
}

type ChatHistoryPayload struct {
	Scope    string        `json:"scope"`
	RoomID   string        `json:"roomId"`
	Team     *Team         `json:"teamId,omitempty"`
	Messages []ChatMessage `json:"messages"`
}

type ChatBroadcastPayload struct {
	Scope   string      `json:"scope"`
	RoomID  string      `json:"roomId"`
	Team    *Team       `json:"teamId,omitempty"`
	Message ChatMessage `json:"message"`
}

type EditorUpdatePayload struct {
	ProblemID string `json:"problemId"`
	Code      string `json:"code"`
	Source    string `json:"source"`
}

type SolvedProblemPayload struct {
	ProblemID string `json:"problemId"`
	Team      Team   `json:"teamId"`
	Username  string `json:"username,omitempty"`
}

type RoomDeletedPayload struct {
	RoomID string `json:"roomId"`
}
