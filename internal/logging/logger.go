package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns a logger for app writing to w. Unless json is set, output is
// formatted for a terminal.
func New(w io.Writer, app, level string, json bool) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if strings.TrimSpace(level) != "" {
		var err error
		lvl, err = zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("logging: %w", err)
		}
	}
	if !json {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("app", app).Logger(), nil
}

// Init is like New writing to stderr, and also installs the logger as the
// global zerolog logger.
func Init(app, level string, json bool) (zerolog.Logger, error) {
	logger, err := New(os.Stderr, app, level, json)
	if err != nil {
		return logger, err
	}
	log.Logger = logger
	return logger, nil
}
