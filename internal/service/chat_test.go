package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code_arena/internal/models"
)

func TestChatBuffer(t *testing.T) {
	b := newChatBuffer(DefaultChatCapacity)
	assert.Equal(t, 500, b.Cap())

	for i := 0; i < 500; i++ {
		assert.False(t, b.Add(models.ChatMessage{Text: fmt.Sprint(i)}))
	}
	assert.True(t, b.Add(models.ChatMessage{Text: "500"}))

	msgs := b.Messages()
	require.Len(t, msgs, 500)
	assert.Equal(t, "1", msgs[0].Text)
	assert.Equal(t, "500", msgs[499].Text)
}

func TestChatBufferCopy(t *testing.T) {
	b := newChatBuffer(2)
	b.Add(models.ChatMessage{Text: "a"})
	msgs := b.Messages()
	msgs[0].Text = "changed"

	assert.Equal(t, "a", b.Messages()[0].Text)
	assert.Equal(t, 1, b.Len())
}

func historyOf(t *testing.T, c *fakeClient) models.ChatHistoryPayload {
	t.Helper()
	msg, ok := c.Last(models.TypeChatHistory)
	require.True(t, ok, "no chat history for %s", c.ID())
	payload, ok := msg.Data.(models.ChatHistoryPayload)
	require.True(t, ok)
	return payload
}

func TestRoomChatReplay(t *testing.T) {
	env := newTestEnv(t)
	alice := newFakeClient("c-alice")
	env.arena.JoinRoom(alice, "r1", "alice", 4)
	require.True(t, env.arena.JoinChat(alice, "r1", nil, "alice"))

	require.True(t, env.arena.PostChat("r1", nil, "alice", "hello"))
	require.True(t, env.arena.PostChat("r1", nil, "alice", "anyone?"))

	live := alice.Messages(models.TypeChatMessage)
	require.Len(t, live, 2)
	assert.Equal(t, models.ScopeRoom, live[0].Data.(models.ChatBroadcastPayload).Scope)

	late := newFakeClient("c-late")
	require.True(t, env.arena.JoinChat(late, "r1", nil, ""))
	history := historyOf(t, late)
	assert.Equal(t, models.ScopeRoom, history.Scope)
	assert.Nil(t, history.Team)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "hello", history.Messages[0].Text)
	assert.Equal(t, "alice", history.Messages[0].Username)
	assert.Equal(t, "anyone?", history.Messages[1].Text)

	// 歷史只回放給新加入的連線
	assert.Len(t, alice.Messages(models.TypeChatHistory), 1)

	chats := env.recorder.Chats()
	require.Len(t, chats, 2)
	assert.Equal(t, models.ScopeRoom, chats[0].Scope)
}

func TestTeamChatIsolation(t *testing.T) {
	env := newTestEnv(t)
	alice, bob, carol := newFakeClient("c-alice"), newFakeClient("c-bob"), newFakeClient("c-carol")
	env.seat(t, alice, "r1", models.TeamA, 0, "alice", false)
	env.seat(t, bob, "r1", models.TeamB, 0, "bob", false)
	env.seat(t, carol, "r1", models.TeamA, 1, "carol", false)

	// 隊伍從座位推斷
	require.True(t, env.arena.JoinChat(alice, "r1", nil, "alice"))
	require.True(t, env.arena.JoinChat(bob, "r1", nil, "bob"))
	assert.True(t, env.hub.IsMember(alice, TeamChatGroup("r1", models.TeamA)))
	assert.True(t, env.hub.IsMember(bob, TeamChatGroup("r1", models.TeamB)))

	teamA := models.TeamA
	require.True(t, env.arena.PostChat("r1", &teamA, "alice", "push left"))
	require.True(t, env.arena.PostChat("r1", nil, "bob", "gl hf"))

	assert.Len(t, alice.Messages(models.TypeChatMessage), 2)
	bobMsgs := bob.Messages(models.TypeChatMessage)
	require.Len(t, bobMsgs, 1)
	assert.Equal(t, "gl hf", bobMsgs[0].Data.(models.ChatBroadcastPayload).Message.Text)

	require.True(t, env.arena.JoinChat(carol, "r1", nil, "carol"))
	history := historyOf(t, carol)
	assert.Equal(t, models.ScopeTeam, history.Scope)
	require.NotNil(t, history.Team)
	assert.Equal(t, models.TeamA, *history.Team)
	require.Len(t, history.Messages, 1)
	assert.Equal(t, "push left", history.Messages[0].Text)

	chats := env.recorder.Chats()
	require.Len(t, chats, 2)
	assert.Equal(t, models.ScopeTeam, chats[0].Scope)
	assert.Equal(t, "A", chats[0].Team)
}

func TestPostChatDropped(t *testing.T) {
	env := newTestEnv(t)
	alice := newFakeClient("c-alice")
	env.arena.JoinRoom(alice, "r1", "alice", 4)
	env.arena.JoinChat(alice, "r1", nil, "alice")

	assert.False(t, env.arena.PostChat("r1", nil, "alice", ""))
	assert.False(t, env.arena.PostChat("", nil, "alice", "hi"))
	assert.False(t, env.arena.PostChat("ghost", nil, "alice", "hi"))
	bad := models.Team(9)
	assert.False(t, env.arena.PostChat("r1", &bad, "alice", "hi"))

	assert.Empty(t, alice.Messages(models.TypeChatMessage))
	assert.False(t, env.arena.JoinChat(alice, "ghost", nil, "alice"))
}

func TestChatClearedWithRoom(t *testing.T) {
	env := newTestEnv(t)
	alice := newFakeClient("c-alice")
	env.seat(t, alice, "r1", models.TeamA, 0, "alice", false)
	env.arena.PostChat("r1", nil, "alice", "old news")
	env.arena.Disconnect(alice)

	bob := newFakeClient("c-bob")
	env.arena.JoinRoom(bob, "r1", "bob", 4)
	require.True(t, env.arena.JoinChat(bob, "r1", nil, "bob"))
	assert.Empty(t, historyOf(t, bob).Messages)
}
