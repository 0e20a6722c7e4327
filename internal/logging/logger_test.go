package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogVerdictSampling(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VerdictSampleRate = 0

	var verdicts bytes.Buffer
	l := NewWithWriters(cfg, &bytes.Buffer{}, &verdicts, &bytes.Buffer{})

	l.LogVerdict("example.com", "www", "A", true, nil, time.Millisecond)
	if verdicts.Len() != 0 {
		t.Fatalf("accepted verdict logged at sample rate 0: %s", verdicts.String())
	}

	l.LogVerdict("example.com", "www", "A", false, []string{"value"}, time.Millisecond)
	var entry map[string]any
	if err := json.Unmarshal(verdicts.Bytes(), &entry); err != nil {
		t.Fatalf("verdict log is not JSON: %v", err)
	}
	if entry["outcome"] != "rejected" || entry["zone"] != "example.com" {
		t.Errorf("unexpected verdict entry: %v", entry)
	}
}

func TestLogVerdictDebugLogsEverything(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = LevelDebug
	cfg.VerdictSampleRate = 0

	var verdicts bytes.Buffer
	l := NewWithWriters(cfg, &bytes.Buffer{}, &verdicts, &bytes.Buffer{})
	l.LogVerdict("example.com", "www", "A", true, nil, 0)

	if !strings.Contains(verdicts.String(), `"outcome":"accepted"`) {
		t.Errorf("accepted verdict missing in debug mode: %s", verdicts.String())
	}
}

func TestEventLog(t *testing.T) {
	var events bytes.Buffer
	l := NewWithWriters(DefaultConfig(), &bytes.Buffer{}, &bytes.Buffer{}, &events)

	l.LogRejected("example.com", "www", "CNAME", map[string]string{"name": "conflict"})
	l.LogStorageError("create_record", "zone-1", errors.New("connection refused"))
	l.LogZoneConflict("tenant-a", "foo.acme.com", "acme.com")

	lines := strings.Split(strings.TrimSpace(events.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d event lines, want 3", len(lines))
	}
	if !strings.Contains(lines[0], `"error_name":"conflict"`) {
		t.Errorf("rejection entry missing error field: %s", lines[0])
	}
	if got := l.GetStats()["events_logged"]; got != int64(3) {
		t.Errorf("events_logged = %v, want 3", got)
	}
}

func TestAppLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = LevelWarn

	var app bytes.Buffer
	l := NewWithWriters(cfg, &app, &bytes.Buffer{}, &bytes.Buffer{})
	l.Info("api", "hidden")
	l.Warn("api", "shown", "zone", "example.com")

	if strings.Contains(app.String(), "hidden") {
		t.Error("info message written at WARN level")
	}
	if !strings.Contains(app.String(), `"component":"api"`) {
		t.Errorf("component attribute missing: %s", app.String())
	}
}

func TestInitializeCreatesFiles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Directory = filepath.Join(t.TempDir(), "logs")
	cfg.EnableConsole = false

	if err := Initialize(cfg); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer SetLogger(nil)
	defer GetLogger().Close()

	Info("test", "hello")
	for _, name := range []string{cfg.AppLogFile, cfg.VerdictLogFile, cfg.EventLogFile} {
		if _, err := os.Stat(filepath.Join(cfg.Directory, name)); err != nil {
			t.Errorf("log file %s not created: %v", name, err)
		}
	}
}
