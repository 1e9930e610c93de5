package app

import (
	"fmt"
	"io"
	"strings"
	"time"

	"ember/hal"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the logger type used across the system.
type Logger = logiface.Logger[logiface.Event]

var levels = []logiface.Level{
	logiface.LevelTrace,
	logiface.LevelDebug,
	logiface.LevelInformational,
	logiface.LevelNotice,
	logiface.LevelWarning,
	logiface.LevelError,
	logiface.LevelCritical,
}

func parseLevel(s string) (logiface.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range levels {
		if l.String() == s {
			return l, nil
		}
	}
	switch s {
	case "warn":
		return logiface.LevelWarning, nil
	case "error":
		return logiface.LevelError, nil
	}
	return logiface.LevelDisabled, fmt.Errorf("unknown log level %q", s)
}

// lineWriter hands each JSON log line to the HAL logger.
type lineWriter struct {
	out hal.Logger
}

func (w lineWriter) Write(p []byte) (int, error) {
	if w.out != nil {
		w.out.WriteLineBytes(p)
	}
	return len(p), nil
}

// NewLogger returns a JSON logger writing lines to out. Messages logged
// with Limit are capped per call site at 20 a second.
func NewLogger(out io.Writer, level string) (*Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	return stumpy.L.New(
		stumpy.L.WithStumpy(
			stumpy.WithWriter(out),
			stumpy.WithTimeField(`ts`),
		),
		stumpy.L.WithLevel(lvl),
		stumpy.L.WithCategoryRateLimits(map[time.Duration]int{
			time.Second: 20,
		}),
	).Logger(), nil
}
