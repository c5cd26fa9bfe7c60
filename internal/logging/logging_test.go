package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	prevLevel, prevLogger := zerolog.GlobalLevel(), log.Logger
	defer func() {
		zerolog.SetGlobalLevel(prevLevel)
		log.Logger = prevLogger
	}()
	var buf bytes.Buffer
	l, err := setup(&buf, "info", "json")
	require.NoError(t, err)

	l.Debug().Msg("hidden")
	l.Info().Str("state", "x--------").Msg("evaluated")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "evaluated", line["message"])
	require.Equal(t, "x--------", line["state"])
}

func TestSetupBadLevel(t *testing.T) {
	_, err := setup(&bytes.Buffer{}, "loud", "json")
	require.Error(t, err)
}
