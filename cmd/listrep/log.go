package main

import (
	"io"
	"time"

	"github.com/inoxlang/listrep/internal/config"
	"github.com/inoxlang/listrep/internal/listrep"
	"github.com/rs/zerolog"
)

const (
	DEFAULT_LOG_LEVEL = "warn"
	CLI_LOG_SOURCE    = "cli"
)

// newLogger returns a console logger writing to w, level is one of LOG_LEVELS.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}

	writer := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !config.SHOULD_COLORIZE,
		TimeFormat: time.TimeOnly,
	}

	logger := zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
	return listrep.ChildLoggerForSource(logger, CLI_LOG_SOURCE), nil
}
