package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range cases {
		got, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", name, err)
		}
		if got != want {
			t.Fatalf("expected %v for %q, got %v", want, name, got)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestConfigureWritesErrorsAndTraces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "kafka2i.log")
	if err := Configure(path, slog.LevelInfo); err != nil {
		t.Fatalf("configure: %v", err)
	}
	t.Cleanup(func() {
		SetTraceEnabled(false)
		Close()
	})

	Error(errors.New("broker unreachable"))
	Trace("ignored", nil)
	SetTraceEnabled(true)
	Trace("session.load", map[string]any{"offset": 7})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %q", len(lines), data)
	}
	if !strings.Contains(lines[0], "broker unreachable") {
		t.Fatalf("expected error entry, got %q", lines[0])
	}
	var entry struct {
		Event   string         `json:"event"`
		Payload map[string]any `json:"payload"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("decode trace: %v", err)
	}
	if entry.Event != "session.load" || entry.Payload["offset"] != float64(7) {
		t.Fatalf("unexpected trace entry %+v", entry)
	}
	if Path() != path {
		t.Fatalf("expected path %s, got %s", path, Path())
	}
}

func TestUseWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	UseWriter(&buf, slog.LevelWarn)
	t.Cleanup(func() { UseWriter(os.Stderr, slog.LevelInfo) })

	slog.Info("hidden")
	slog.Warn("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("expected info entry to be filtered, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn entry, got %q", buf.String())
	}
}
