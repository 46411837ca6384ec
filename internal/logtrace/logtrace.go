// Package logtrace configures the global zerolog logger.
package logtrace

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

var traceEnabled atomic.Bool

// Setup sets the global level and output format. Unknown levels fall back to
// info. The "trace" level also turns on route dumps at startup.
func Setup(level, format string) {
	SetupWriter(os.Stderr, level, format)
}

func SetupWriter(w io.Writer, level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	traceEnabled.Store(lvl == zerolog.TraceLevel)

	if strings.EqualFold(format, FormatConsole) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger
}

func IsTraceEnabled() bool {
	return traceEnabled.Load()
}
