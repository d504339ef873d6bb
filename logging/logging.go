package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pterm/pterm"
)

var levels = map[string]pterm.LogLevel{
	"trace": pterm.LogLevelTrace,
	"debug": pterm.LogLevelDebug,
	"info":  pterm.LogLevelInfo,
	"warn":  pterm.LogLevelWarn,
	"error": pterm.LogLevelError,
}

func ParseLevel(name string) (pterm.LogLevel, error) {
	level, ok := levels[strings.ToLower(name)]
	if !ok {
		return pterm.LogLevelDisabled, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// New builds a slog logger on top of a pterm logger writing to w.
func New(level pterm.LogLevel, w io.Writer) *slog.Logger {
	logger := pterm.DefaultLogger.WithLevel(level).WithWriter(w)
	return slog.New(pterm.NewSlogHandler(logger))
}

func Discard() *slog.Logger {
	return New(pterm.LogLevelDisabled, io.Discard)
}
