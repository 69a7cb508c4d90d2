package logging

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/clog"
)

var ErrUnknownLevel = errors.New("unknown log level")

// ParseLevel accepts debug, info, warn, warning and error in any case.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, ErrUnknownLevel
	}
}

func New(w io.Writer, level string) (*slog.Logger, error) {
	if w == nil {
		w = os.Stdout
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	handler := clog.New(
		clog.WithWriter(w),
		clog.WithLevel(lvl),
		clog.WithTimeFmt("15:04:05"),
		clog.WithSource(false),
		clog.WithAttrHook(clog.GoerrHook),
	)

	return slog.New(handler), nil
}

// Setup installs the logger as the process default.
func Setup(w io.Writer, level string) error {
	logger, err := New(w, level)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
