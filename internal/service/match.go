package service

import (
	"time"

	"github.com/rs/zerolog/log"

	"code_arena/internal/models"
)

// StartGame 由房主開始比賽，至少要有一人入座，且所有已入座的玩家都必須已準備。
// 成功時安排比賽時間到的計時器，並通知房間成員前往題目集。
func (a *Arena) StartGame(roomID, identity string, minutes int) bool {
	if minutes <= 0 {
		return false
	}
	e := a.lookup(roomID)
	if e == nil {
		return false
	}
	defer e.mu.Unlock()

	r := e.room
	if identity == "" || r.Owner != identity || r.Status != models.RoomStatusLobby || r.Empty() || !r.AllReady() {
		log.Debug().Str("module", "match").Str("room", roomID).Str("user", identity).Msg("start rejected")
		return false
	}

	now := a.now()
	r.Status = models.RoomStatusInProgress
	r.Duration = time.Duration(minutes) * time.Minute
	r.StartTime = now
	r.EndTime = now.Add(r.Duration)
	r.FinishedAt = [models.TeamCount]*time.Time{}

	a.scheduleTimeUpLocked(e)

	a.hub.Publish(RoomGroup(roomID), models.NewMessage(models.TypeNavigate, roomID, models.NavigatePayload{
		RoomID: roomID,
		Room:   r.Snapshot(),
	}))
	log.Info().Str("module", "match").Str("room", roomID).Dur("duration", r.Duration).Msg("match started")
	return true
}

// MatchDetails 回傳比賽的預定結束時間，尚未開始或房間不存在時回傳 nil
func (a *Arena) MatchDetails(roomID string) *time.Time {
	e := a.lookup(roomID)
	if e == nil {
		return nil
	}
	defer e.mu.Unlock()

	if e.room.StartTime.IsZero() {
		return nil
	}
	end := e.room.EndTime
	return &end
}

// SendMatchDetails 只回覆給提出查詢的連線
func (a *Arena) SendMatchDetails(c Client, roomID string) {
	if c == nil {
		return
	}
	c.Send(models.NewMessage(models.TypeMatchDetails, roomID, models.MatchDetailsPayload{EndTime: a.MatchDetails(roomID)}))
}

// FinishGame 記錄隊伍完成時間，每隊只記錄一次。
// 兩隊都完成時取消計時器並宣告比賽結束。
func (a *Arena) FinishGame(roomID string, team models.Team) bool {
	if !team.Valid() {
		return false
	}
	e := a.lookup(roomID)
	if e == nil {
		return false
	}
	defer e.mu.Unlock()

	r := e.room
	if r.Status != models.RoomStatusInProgress || r.FinishedAt[team] != nil {
		return false
	}

	finished := a.now()
	r.FinishedAt[team] = &finished
	a.hub.Publish(RoomGroup(roomID), models.NewMessage(models.TypeTeamFinished, roomID, models.TeamFinishedPayload{
		Team:       team,
		FinishTime: finished,
	}))

	if r.FinishedAt[team.Other()] != nil {
		a.cancelTimerLocked(e)
		a.endMatchLocked(e, models.ReasonBothFinished)
	}
	return true
}

// endMatchLocked 宣告比賽結束，兩條結束路徑都只會有一條走到這裡
func (a *Arena) endMatchLocked(e *roomEntry, reason string) {
	e.room.Status = models.RoomStatusFinished
	a.hub.Publish(RoomGroup(e.room.ID), models.NewMessage(models.TypeMatchEnd, e.room.ID, models.MatchEndPayload{Reason: reason}))
	a.recorder.RecordMatch(models.NewMatchRecord(e.room, reason))
	log.Info().Str("module", "match").Str("room", e.room.ID).Str("reason", reason).Msg("match ended")
}

// scheduleTimeUpLocked 安排時間到的動作，並取代房間先前的計時器
func (a *Arena) scheduleTimeUpLocked(e *roomEntry) {
	a.cancelTimerLocked(e)
	gen := e.timerGen
	e.timer = a.scheduler.AfterFunc(e.room.Duration, func() {
		a.onTimeUp(e, gen)
	})
}

// cancelTimerLocked 停止計時器；已觸發但還在等鎖的回呼會因世代不符而失效
func (a *Arena) cancelTimerLocked(e *roomEntry) {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.timerGen++
}

// onTimeUp 只作用於安排計時器的那個房間實體；同 ID 重建的房間不受影響
func (a *Arena) onTimeUp(e *roomEntry, gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.timer == nil || e.timerGen != gen {
		return
	}
	e.timer = nil
	a.endMatchLocked(e, models.ReasonTimeUp)
}
