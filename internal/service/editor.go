package service

import "code_arena/internal/models"

// JoinProblemRoom 訂閱 (房間, 隊伍, 題目) 的編輯器頻道；
// 若該頻道已有最新內容，只回放給加入者。
func (a *Arena) JoinProblemRoom(c Client, roomID string, team models.Team, problemID string) bool {
	if c == nil || roomID == "" || problemID == "" || !team.Valid() {
		return false
	}
	a.hub.Subscribe(c, EditorGroup(roomID, team, problemID))

	e := a.lookup(roomID)
	if e == nil {
		return true
	}
	defer e.mu.Unlock()

	if latest, ok := e.editor[editorKey{team: team, problemID: problemID}]; ok {
		c.Send(models.NewMessage(models.TypeEditorUpdate, roomID, latest))
	}
	return true
}

// JoinProblemset 訂閱隊伍的題目集頻道
func (a *Arena) JoinProblemset(c Client, roomID string, team models.Team) bool {
	if c == nil || roomID == "" || !team.Valid() {
		return false
	}
	a.hub.Subscribe(c, ProblemsetGroup(roomID, team))
	return true
}

// EditorChange 把新的程式碼轉送給同頻道的其他連線，後到的更新覆蓋先前的內容
func (a *Arena) EditorChange(c Client, roomID string, team models.Team, problemID, code, source string) int {
	if roomID == "" || problemID == "" || !team.Valid() {
		return 0
	}
	update := models.EditorUpdatePayload{ProblemID: problemID, Code: code, Source: source}
	msg := models.NewMessage(models.TypeEditorUpdate, roomID, update)
	key := EditorGroup(roomID, team, problemID)

	var senderID string
	if c != nil {
		senderID = c.ID()
	}

	e := a.lookup(roomID)
	if e == nil {
		return a.hub.PublishExcept(key, senderID, msg)
	}
	defer e.mu.Unlock()

	e.editor[editorKey{team: team, problemID: problemID}] = update
	return a.hub.PublishExcept(key, senderID, msg)
}

// MarkSolved 通知隊伍題目集頻道某題已解出
func (a *Arena) MarkSolved(roomID string, team models.Team, problemID, identity string) int {
	if roomID == "" || problemID == "" || !team.Valid() {
		return 0
	}
	return a.hub.Publish(ProblemsetGroup(roomID, team), models.NewMessage(models.TypeSolvedProblem, roomID, models.SolvedProblemPayload{
		ProblemID: problemID,
		Team:      team,
		Username:  identity,
	}))
}
