package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
)

// AddLogFlags adds the --log-level and --log-format flags.
// The returned function installs the configured default logger.
func AddLogFlags(flags *pflag.FlagSet, out io.Writer) func() {
	level := &logLevelFlag{name: "INFO", level: slog.LevelInfo}
	format := &logFormatFlag{name: "text"}

	flags.Var(level, "log-level", "set the log level (DEBUG, INFO, WARN, ERROR)")
	flags.Var(format, "log-format", "set the log format (text, json)")

	return func() {
		slog.SetDefault(NewLogger(out, format.name, level.level))
	}
}

// NewLogger creates a text or JSON logger writing to out.
func NewLogger(out io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(out, opts)
	default:
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

type logLevelFlag struct {
	name  string
	level slog.Level
}

func (f *logLevelFlag) Set(s string) error {
	var level slog.Level

	switch strings.ToUpper(s) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		return fmt.Errorf("unsupported log level %q provided. supported log levels are DEBUG, INFO, WARN, ERROR", s)
	}

	f.name = strings.ToUpper(s)
	f.level = level

	return nil
}

func (f *logLevelFlag) String() string {
	return f.name
}

func (f *logLevelFlag) Type() string {
	return "LEVEL"
}

type logFormatFlag struct {
	name string
}

func (f *logFormatFlag) Set(s string) error {
	switch s {
	case "text", "json":
		f.name = s
		return nil
	default:
		return fmt.Errorf("unsupported log format %q provided. supported log formats are text, json", s)
	}
}

func (f *logFormatFlag) String() string {
	return f.name
}

func (f *logFormatFlag) Type() string {
	return "FORMAT"
}
