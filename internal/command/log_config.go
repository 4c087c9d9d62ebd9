package command

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joeycumines/goap/internal/config"
)

// logFlags are the logging flags shared by the planning commands. Empty
// values fall back to the configuration.
type logFlags struct {
	level  string
	format string
	file   string
}

func (f *logFlags) setup(fs *flag.FlagSet) {
	fs.StringVar(&f.level, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&f.format, "log-format", "", "Log format: text, json")
	fs.StringVar(&f.file, "log-file", "", "Append logs to this file instead of stderr")
}

// logConfig holds the resolved logging configuration.
type logConfig struct {
	level   slog.Level
	json    bool
	logFile io.WriteCloser // nil when logging to stderr
}

// resolveLogConfig resolves flags, then config (with env overrides), then
// schema defaults. The caller must Close logFile when it is set.
func resolveLogConfig(f logFlags, cfg *config.Config) (logConfig, error) {
	schema := config.DefaultSchema()
	resolve := func(flagValue, key string) string {
		if flagValue != "" || cfg == nil {
			return flagValue
		}
		return schema.Resolve(cfg, key)
	}

	var lc logConfig
	switch levelStr := resolve(f.level, "log.level"); strings.ToLower(levelStr) {
	case "debug":
		lc.level = slog.LevelDebug
	case "info":
		lc.level = slog.LevelInfo
	case "warn", "":
		lc.level = slog.LevelWarn
	case "error":
		lc.level = slog.LevelError
	default:
		return lc, errors.Newf("invalid log level: %s", levelStr)
	}

	switch formatStr := resolve(f.format, "log.format"); strings.ToLower(formatStr) {
	case "text", "":
	case "json":
		lc.json = true
	default:
		return lc, errors.Newf("invalid log format: %s", formatStr)
	}

	if path := resolve(f.file, "log.file"); path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return lc, errors.Wrapf(err, "failed to open log file %s", path)
		}
		lc.logFile = file
	}
	return lc, nil
}

// logger builds the slog logger, writing to stderr unless a log file is set.
func (lc logConfig) logger(stderr io.Writer) *slog.Logger {
	w := stderr
	if lc.logFile != nil {
		w = lc.logFile
	}
	opts := &slog.HandlerOptions{Level: lc.level}
	if lc.json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// installLogger resolves the logging configuration and makes the result the
// default logger. The returned function closes the log file, if any.
func installLogger(f logFlags, cfg *config.Config, stderr io.Writer) (*slog.Logger, func(), error) {
	lc, err := resolveLogConfig(f, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger := lc.logger(stderr)
	slog.SetDefault(logger)
	closeFn := func() {}
	if lc.logFile != nil {
		closeFn = func() { _ = lc.logFile.Close() }
	}
	return logger, closeFn, nil
}
