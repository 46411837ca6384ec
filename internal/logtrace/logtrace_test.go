package logtrace

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWriter(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	tests := []struct {
		level     string
		wantLevel zerolog.Level
		wantTrace bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"TRACE", zerolog.TraceLevel, true},
		{"", zerolog.InfoLevel, false},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			SetupWriter(&buf, tt.level, FormatJSON)
			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
			assert.Equal(t, tt.wantTrace, IsTraceEnabled())
		})
	}
}

func TestJSONOutput(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)
	var buf bytes.Buffer
	SetupWriter(&buf, "info", FormatJSON)

	log.Debug().Msg("dropped")
	log.Info().Str("name", "cars").Msg("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "cars", line["name"])
	assert.Equal(t, "info", line["level"])
}
