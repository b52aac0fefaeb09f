package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the global logger instance. It discards all output until Init enables
// file logging.
var L *slog.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

const (
	logPrefix     = "vlist-"
	logSuffix     = ".log"
	retentionDays = 30
)

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	LogDir  string     // Directory for log files. Default: ~/.osa-vlist/logs
	Level   slog.Level // Minimum log level. Default: LevelInfo
	Output  io.Writer  // Overrides the log file when set
}

var logFile *os.File

// Init configures logging. Call from main() before any log calls.
func Init(opts Options) error {
	Close()

	if !opts.Enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}

	out := opts.Output
	if out == nil {
		logDir := opts.LogDir
		if logDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			logDir = filepath.Join(home, ".osa-vlist", "logs")
		}
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return err
		}

		cleanOldLogs(logDir, time.Now())

		filename := filepath.Join(logDir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
		f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		logFile = f
		out = f
	}

	L = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: opts.Level}))
	return nil
}

// Close releases the log file, if any, and discards further output.
func Close() {
	if logFile == nil {
		return
	}
	logFile.Close()
	logFile = nil
	L = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// cleanOldLogs removes log files older than retentionDays. Best-effort.
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

		// vlist-2024-01-05.log
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

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
