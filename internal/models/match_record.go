package models

import (
	"time"

	"gorm.io/gorm"
)

// MatchRecord 表示一場已結束比賽的存檔
type MatchRecord struct {
	gorm.Model
	RoomID            string     `gorm:"index;not null" json:"room_id"`
	Owner             string     `json:"owner"`
	TeamA             []string   `gorm:"serializer:json" json:"team_a"`
	TeamB             []string   `gorm:"serializer:json" json:"team_b"`
	StartTime         time.Time  `json:"start_time"`
	EndTime           time.Time  `json:"end_time"` // 預定結束時間
	TeamAFinishedTime *time.Time `json:"team_a_finished_time"`
	TeamBFinishedTime *time.Time `json:"team_b_finished_time"`
	Reason            string     `gorm:"type:varchar(32)" json:"reason"`
}

// NewMatchRecord 從房間狀態建立比賽存檔
func NewMatchRecord(r *Room, reason string) *MatchRecord {
	rec := &MatchRecord{
		RoomID:            r.ID,
		Owner:             r.Owner,
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
		TeamAFinishedTime: copyTime(r.FinishedAt[TeamA]),
		TeamBFinishedTime: copyTime(r.FinishedAt[TeamB]),
		Reason:            reason,
	}
	for _, o := range r.Teams[TeamA] {
		if o != nil {
			rec.TeamA = append(rec.TeamA, o.Identity)
		}
	}
	for _, o := range r.Teams[TeamB] {
		if o != nil {
			rec.TeamB = append(rec.TeamB, o.Identity)
		}
	}
	return rec
}

// ChatRecord 是聊天訊息的存檔
type ChatRecord struct {
	gorm.Model
	RoomID    string    `gorm:"index;not null" json:"room_id"`
	Scope     string    `gorm:"type:varchar(10)" json:"scope"`
	Team      string    `gorm:"type:varchar(1)" json:"team,omitempty"`
	Username  string    `json:"username"`
	Text      string    `gorm:"type:text" json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
