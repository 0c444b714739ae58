// Package logger holds the slog logger heapctl hands to heapkit.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the global logger instance. It discards all output until Init
// enables it.
var L *slog.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// stderr is where enabled logs go when no LogDir is set.
var stderr io.Writer = os.Stderr

// closer is the log file opened by the last Init, if any.
var closer io.Closer

const (
	logPrefix     = "heapctl-"
	logSuffix     = ".log"
	retentionDays = 30
)

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	LogDir  string     // Directory for dated JSON log files. Empty logs text to stderr
	Level   slog.Level // Minimum log level
}

// Init configures logging. Calling it again replaces the previous logger
// and closes any file it had open.
func Init(opts Options) error {
	Close()
	if !opts.Enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}
	hopts := &slog.HandlerOptions{Level: opts.Level}

	if opts.LogDir == "" {
		L = slog.New(slog.NewTextHandler(stderr, hopts))
		return nil
	}

	if err := os.MkdirAll(opts.LogDir, 0755); err != nil {
		return err
	}

	// Clean up old logs (best-effort, ignore errors)
	cleanOldLogs(opts.LogDir, time.Now())

	filename := filepath.Join(opts.LogDir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	closer = f
	L = slog.New(slog.NewJSONHandler(f, hopts))
	return nil
}

// Close closes the log file, if one is open, and reverts L to discarding.
func Close() {
	if closer != nil {
		closer.Close()
		closer = nil
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// cleanOldLogs removes log files dated more than retentionDays before now.
func cleanOldLogs(logDir string, now time.Time) {
	cutoff := now.AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}

		// heapctl-2024-01-05.log
		dateStr := strings.TrimPrefix(strings.TrimSuffix(name, logSuffix), logPrefix)
		logDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		if logDate.Before(cutoff) {
			os.Remove(filepath.Join(logDir, name))
		}
	}
}
