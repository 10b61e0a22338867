package models

import (
	"time"
)

// RoomStatus 定義房間狀態的類型
type RoomStatus string

const (
	RoomStatusLobby      RoomStatus = "lobby"
	RoomStatusInProgress RoomStatus = "in-progress"
	RoomStatusFinished   RoomStatus = "finished"
)

// Occupant 表示佔用某個隊伍座位的玩家
type Occupant struct {
	Identity string `json:"pid"`
	Ready    bool   `json:"ready"`
}

// Room 表示一個對戰房間
//
// Room 本身不是並發安全的，所有存取都必須在房間的互斥鎖內進行。
type Room struct {
	ID         string
	Owner      string
	Public     bool
	Status     RoomStatus
	Teams      [TeamCount][]*Occupant // 長度在建立時固定
	Duration   time.Duration
	StartTime  time.Time
	EndTime    time.Time
	FinishedAt [TeamCount]*time.Time
}

// NewRoom 建立一個空房間，建立者成為房主
func NewRoom(id, owner string, slotCount int) *Room {
	r := &Room{
		ID:     id,
		Owner:  owner,
		Status: RoomStatusLobby,
	}
	for _, t := range Teams {
		r.Teams[t] = make([]*Occupant, slotCount)
	}
	return r
}

// SlotCount 回傳每隊的座位數
func (r *Room) SlotCount() int {
	return len(r.Teams[TeamA])
}

func (r *Room) validSlot(team Team, index int) bool {
	return team.Valid() && index >= 0 && index < len(r.Teams[team])
}

// Occupant 回傳指定座位的玩家，空位或無效座位回傳 nil
func (r *Room) Occupant(team Team, index int) *Occupant {
	if !r.validSlot(team, index) {
		return nil
	}
	return r.Teams[team][index]
}

// Occupy 只在座位為空時讓 identity 坐下
func (r *Room) Occupy(team Team, index int, identity string) bool {
	if identity == "" || !r.validSlot(team, index) || r.Teams[team][index] != nil {
		return false
	}
	r.Teams[team][index] = &Occupant{Identity: identity}
	return true
}

// Vacate 清空 identity 在兩隊中佔用的所有座位
func (r *Room) Vacate(identity string) bool {
	vacated := false
	for _, t := range Teams {
		for i, o := range r.Teams[t] {
			if o != nil && o.Identity == identity {
				r.Teams[t][i] = nil
				vacated = true
			}
		}
	}
	return vacated
}

// SeatOf 找出 identity 目前所在的座位
func (r *Room) SeatOf(identity string) (Team, int, bool) {
	for _, t := range Teams {
		for i, o := range r.Teams[t] {
			if o != nil && o.Identity == identity {
				return t, i, true
			}
		}
	}
	return 0, 0, false
}

// ToggleReady 只有座位上的本人可以切換準備狀態
func (r *Room) ToggleReady(team Team, index int, identity string) bool {
	o := r.Occupant(team, index)
	if o == nil || o.Identity != identity {
		return false
	}
	o.Ready = !o.Ready
	return true
}

// AllReady 回報所有已佔用的座位是否都已準備
func (r *Room) AllReady() bool {
	for _, t := range Teams {
		for _, o := range r.Teams[t] {
			if o != nil && !o.Ready {
				return false
			}
		}
	}
	return true
}

// Identities 回傳房間內所有座位上的玩家
func (r *Room) Identities() []string {
	var out []string
	for _, t := range Teams {
		for _, o := range r.Teams[t] {
			if o != nil {
				out = append(out, o.Identity)
			}
		}
	}
	return out
}

// Empty 回報兩隊是否都沒有任何玩家
func (r *Room) Empty() bool {
	return len(r.Identities()) == 0
}

// RoomSnapshot 是房間對外廣播與查詢用的唯讀快照
type RoomSnapshot struct {
	ID                string      `json:"roomId"`
	Owner             string      `json:"owner"`
	Public            bool        `json:"public"`
	Status            RoomStatus  `json:"status"`
	SlotCount         int         `json:"slotCount"`
	TeamA             []*Occupant `json:"teamA"`
	TeamB             []*Occupant `json:"teamB"`
	StartTime         *time.Time  `json:"startTime,omitempty"`
	EndTime           *time.Time  `json:"endTime,omitempty"`
	TeamAFinishedTime *time.Time  `json:"teamAFinishedTime"`
	TeamBFinishedTime *time.Time  `json:"teamBFinishedTime"`
}

// Snapshot 複製房間目前狀態，快照與房間之間不共享指標
func (r *Room) Snapshot() RoomSnapshot {
	s := RoomSnapshot{
		ID:                r.ID,
		Owner:             r.Owner,
		Public:            r.Public,
		Status:            r.Status,
		SlotCount:         r.SlotCount(),
		TeamA:             copyRoster(r.Teams[TeamA]),
		TeamB:             copyRoster(r.Teams[TeamB]),
		TeamAFinishedTime: copyTime(r.FinishedAt[TeamA]),
		TeamBFinishedTime: copyTime(r.FinishedAt[TeamB]),
	}
	if !r.StartTime.IsZero() {
		s.StartTime = copyTime(&r.StartTime)
		s.EndTime = copyTime(&r.EndTime)
	}
	return s
}

// Roster 回傳指定隊伍的座位快照
func (s RoomSnapshot) Roster(t Team) []*Occupant {
	if t == TeamB {
		return s.TeamB
	}
	return s.TeamA
}

func copyRoster(in []*Occupant) []*Occupant {
	out := make([]*Occupant, len(in))
	for i, o := range in {
		if o != nil {
			c := *o
			out[i] = &c
		}
	}
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
