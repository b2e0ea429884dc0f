package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root logger. Development environments get a console writer,
// everything else emits JSON lines.
func New(appName, environment, level string) *zerolog.Logger {
	var w io.Writer = os.Stdout
	if strings.EqualFold(strings.TrimSpace(environment), "development") {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	l := zerolog.New(w).Level(lvl).With().Timestamp().Str("app", appName).Logger()
	return &l
}

// Nop returns a logger that discards everything. Used by tests and as a nil fallback.
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
