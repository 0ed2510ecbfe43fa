package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultLogFile = "kafka2i.log"

var (
	mu           sync.Mutex
	traceEnabled bool
	logPath      = defaultLogFile
	logFile      *os.File
	level        = new(slog.LevelVar)
)

// ParseLevel maps a textual level onto slog. Unknown names are an error.
func ParseLevel(name string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return lvl, nil
}

// Configure opens the log destination and installs a JSON slog handler as
// the process default. Empty paths fall back to the default file.
// Directories are created automatically when missing. The terminal is owned
// by the UI, so nothing is ever written to stderr after Configure succeeds.
func Configure(path string, lvl slog.Level) error {
	mu.Lock()
	defer mu.Unlock()

	if strings.TrimSpace(path) == "" {
		path = defaultLogFile
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	logPath = path
	level.Set(lvl)
	slog.SetDefault(slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})))
	return nil
}

// UseWriter routes logging to w. Tests use it to capture output.
func UseWriter(w io.Writer, lvl slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	level.Set(lvl)
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}

// Close releases the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// Path returns the active log file path.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Error records err at error level.
func Error(err error) {
	if err == nil {
		return
	}
	slog.Error(err.Error())
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	traceEnabled = enabled
	mu.Unlock()
}

// TraceEnabled reports whether trace entries are emitted.
func TraceEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return traceEnabled
}

// Trace appends a structured JSON entry to the log when tracing is enabled.
// Trace entries bypass the level filter.
func Trace(event string, payload any) {
	mu.Lock()
	defer mu.Unlock()
	if !traceEnabled || logFile == nil {
		return
	}

	entry := struct {
		Time    time.Time `json:"time"`
		Event   string    `json:"event"`
		Payload any       `json:"payload,omitempty"`
	}{
		Time:    time.Now().UTC(),
		Event:   event,
		Payload: payload,
	}
	if err := json.NewEncoder(logFile).Encode(entry); err != nil {
		slog.Warn("trace encoding failed", "event", event, "err", err)
	}
}
