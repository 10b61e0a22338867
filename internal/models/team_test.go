package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTeam(t *testing.T) {
	tests := []struct {
		in      string
		want    Team
		wantErr bool
	}{
		{"A", TeamA, false},
		{"b", TeamB, false},
		{" B ", TeamB, false},
		{"C", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTeam(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTeam)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTeamOther(t *testing.T) {
	assert.Equal(t, TeamB, TeamA.Other())
	assert.Equal(t, TeamA, TeamB.Other())
	assert.False(t, Team(2).Valid())
}

func TestTeamJSON(t *testing.T) {
	raw, err := json.Marshal(TeamFinishedPayload{Team: TeamB})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"teamId":"B"`)

	var p EventPayload
	require.NoError(t, json.Unmarshal([]byte(`{"roomId":"r1","teamId":"a","slotIndex":2}`), &p))
	team, ok := p.TeamOf()
	require.True(t, ok)
	assert.Equal(t, TeamA, team)
	require.NotNil(t, p.SlotIndex)
	assert.Equal(t, 2, *p.SlotIndex)

	assert.Error(t, json.Unmarshal([]byte(`{"team":"Z"}`), &p))

	_, err = json.Marshal(SolvedProblemPayload{Team: Team(5)})
	assert.Error(t, err)
}

func TestEventPayloadTeamPrecedence(t *testing.T) {
	var p EventPayload
	require.NoError(t, json.Unmarshal([]byte(`{"team":"B","teamId":"A"}`), &p))
	team, ok := p.TeamOf()
	require.True(t, ok)
	assert.Equal(t, TeamB, team)

	_, ok = EventPayload{}.TeamOf()
	assert.False(t, ok)
}
