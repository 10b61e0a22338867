package models

import (
	"errors"
	"strings"
)

// Team 表示房間中的隊伍，只有 A、B 兩隊
type Team int

const (
	TeamA Team = iota
	TeamB
)

// TeamCount 是每個房間固定的隊伍數量
const TeamCount = 2

// Teams 依序列出所有隊伍，方便迭代
var Teams = [TeamCount]Team{TeamA, TeamB}

var ErrInvalidTeam = errors.New("invalid team")

// ParseTeam 將 "A"/"B"（大小寫不拘）轉成 Team
func ParseTeam(s string) (Team, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return TeamA, nil
	case "B":
		return TeamB, nil
	}
	return 0, ErrInvalidTeam
}

// Valid 回報 t 是否為合法隊伍
func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

// Other 回傳對手隊伍
func (t Team) Other() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

func (t Team) String() string {
	switch t {
	case TeamA:
		return "A"
	case TeamB:
		return "B"
	}
	return "?"
}

// MarshalText 讓 JSON 以 "A"/"B" 表示隊伍
func (t Team) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, ErrInvalidTeam
	}
	return []byte(t.String()), nil
}

func (t *Team) UnmarshalText(b []byte) error {
	parsed, err := ParseTeam(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
