package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code_arena/internal/models"
	"code_arena/internal/repository"
)

type stubMatchRepo struct {
	matches []models.MatchRecord
	err     error
}

func (s *stubMatchRepo) Create(context.Context, *models.MatchRecord) error { return nil }

func (s *stubMatchRepo) FindByRoomID(context.Context, string) ([]models.MatchRecord, error) {
	return s.matches, s.err
}

type stubChatRepo struct {
	msgs []models.ChatRecord
}

func (s *stubChatRepo) Create(context.Context, *models.ChatRecord) error { return nil }

func (s *stubChatRepo) FindByRoomID(context.Context, string) ([]models.ChatRecord, error) {
	return s.msgs, nil
}

func newHistoryRouter(repos *repository.Repositories) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHistoryHandler(repos)
	r := gin.New()
	r.GET("/rooms/:id/history", h.ListMatches)
	r.GET("/rooms/:id/chat", h.ListChat)
	return r
}

func TestHistoryHandler(t *testing.T) {
	r := newHistoryRouter(&repository.Repositories{
		Match: &stubMatchRepo{matches: []models.MatchRecord{{RoomID: "r1", Reason: models.ReasonTimeUp, TeamA: []string{"alice"}}}},
		Chat:  &stubChatRepo{msgs: []models.ChatRecord{{RoomID: "r1", Scope: models.ScopeRoom, Username: "bob", Text: "gg"}}},
	})

	var matches []map[string]any
	require.Equal(t, http.StatusOK, get(t, r, "/rooms/r1/history", &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "time_up", matches[0]["reason"])
	assert.Equal(t, []any{"alice"}, matches[0]["team_a"])

	var chat []map[string]any
	require.Equal(t, http.StatusOK, get(t, r, "/rooms/r1/chat", &chat))
	require.Len(t, chat, 1)
	assert.Equal(t, "gg", chat[0]["text"])
}

func TestHistoryHandlerError(t *testing.T) {
	r := newHistoryRouter(&repository.Repositories{
		Match: &stubMatchRepo{err: errors.New("connection refused")},
		Chat:  &stubChatRepo{},
	})
	assert.Equal(t, http.StatusInternalServerError, get(t, r, "/rooms/r1/history", nil))
}
