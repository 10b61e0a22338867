package service

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"code_arena/internal/models"
)

// Session 是一條連線在伺服器端的狀態。
// 驗證過的連線身分固定；未驗證的連線以第一個帶有 username 的事件綁定身分。
type Session struct {
	Client   Client
	identity string
	verified bool
}

func NewSession(c Client, identity string, verified bool) *Session {
	return &Session{Client: c, identity: identity, verified: verified && identity != ""}
}

// Identity 回傳目前綁定的身分
func (s *Session) Identity() string { return s.identity }

// resolve 決定事件所代表的身分，與已綁定身分不符時回傳 false
func (s *Session) resolve(claimed string) (string, bool) {
	switch {
	case s.identity == "" && claimed == "":
		return "", false
	case s.identity == "":
		s.identity = claimed
		return claimed, true
	case claimed == "" || claimed == s.identity:
		return s.identity, true
	}
	return "", false
}

// Dispatcher 把連線送來的事件解碼後交給 Arena
type Dispatcher struct {
	arena *Arena
}

func NewDispatcher(arena *Arena) *Dispatcher {
	return &Dispatcher{arena: arena}
}

// Dispatch 處理一個原始訊框。格式錯誤或缺少欄位的事件直接忽略。
func (d *Dispatcher) Dispatch(s *Session, raw []byte) {
	var ev models.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		log.Debug().Str("module", "dispatcher").Err(err).Msg("malformed frame")
		return
	}
	var p models.EventPayload
	if len(ev.Data) > 0 {
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			log.Debug().Str("module", "dispatcher").Str("event", ev.Type).Err(err).Msg("malformed payload")
			return
		}
	}
	if !d.handle(s, ev.Type, p) {
		log.Debug().Str("module", "dispatcher").Str("event", ev.Type).Str("room", p.RoomID).Msg("event ignored")
	}
}

func (d *Dispatcher) handle(s *Session, typ string, p models.EventPayload) bool {
	a := d.arena
	c := s.Client
	team, hasTeam := p.TeamOf()

	switch typ {
	case models.EventJoinRoom:
		id, ok := s.resolve(p.Username)
		return ok && a.JoinRoom(c, p.RoomID, id, p.SlotCount)

	case models.EventJoinSlot:
		id, ok := s.resolve(p.Username)
		if !ok || !hasTeam || p.SlotIndex == nil {
			return false
		}
		return a.JoinSlot(c, p.RoomID, team, *p.SlotIndex, id, p.SlotCount)

	case models.EventToggleReady:
		id, ok := s.resolve(p.Username)
		if !ok || !hasTeam || p.SlotIndex == nil {
			return false
		}
		return a.ToggleReady(p.RoomID, team, *p.SlotIndex, id)

	case models.EventTogglePrivacy:
		id, ok := s.resolve(p.Username)
		return ok && a.TogglePrivacy(p.RoomID, id, p.IsPublic)

	case models.EventStartGame:
		id, ok := s.resolve(p.Username)
		return ok && a.StartGame(p.RoomID, id, p.Time)

	case models.EventGetMatchDetails:
		a.SendMatchDetails(c, p.RoomID)
		return true

	case models.EventFinishGame:
		return hasTeam && a.FinishGame(p.RoomID, team)

	case models.EventJoinChat:
		id, _ := s.resolve(p.Username)
		var tp *models.Team
		if hasTeam {
			tp = &team
		}
		return a.JoinChat(c, p.RoomID, tp, id)

	case models.EventChatMessage:
		id, ok := s.resolve(p.Username)
		if !ok {
			return false
		}
		var tp *models.Team
		if hasTeam {
			tp = &team
		}
		return a.PostChat(p.RoomID, tp, id, p.Text)

	case models.EventJoinProblemRoom:
		return hasTeam && a.JoinProblemRoom(c, p.RoomID, team, p.ProblemID)

	case models.EventJoinProblemset:
		return hasTeam && a.JoinProblemset(c, p.RoomID, team)

	case models.EventEditorChange:
		if !hasTeam || p.RoomID == "" || p.ProblemID == "" {
			return false
		}
		a.EditorChange(c, p.RoomID, team, p.ProblemID, p.Code, p.Source)
		return true

	case models.EventMarkSolved:
		if !hasTeam || p.RoomID == "" || p.ProblemID == "" {
			return false
		}
		a.MarkSolved(p.RoomID, team, p.ProblemID, s.Identity())
		return true

	case models.EventDisconnectRoom:
		id, ok := s.resolve(p.Username)
		return ok && a.LeaveRoom(c, p.RoomID, id)

	case models.EventDeleteRoom:
		return a.DeleteRoom(p.RoomID)
	}
	return false
}
