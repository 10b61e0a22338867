package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"code_arena/pkg/config"
)

func TestSetupLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	Setup(config.LogConfig{Level: "debug", Format: "json"})
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	Setup(config.LogConfig{Level: "loud"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	Setup(config.LogConfig{})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
