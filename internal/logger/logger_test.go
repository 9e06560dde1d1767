package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.Debug("debug message", nil)
	l.Info("info message", nil)
	l.Warn("warn message", nil)
	l.Error("error message", nil, nil)

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Error("messages below the minimum level should be discarded")
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Error("messages at or above the minimum level should be logged")
	}
}

func TestLoggerJSONEntry(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Info("calendar written", Fields{"calendar": "pankow-003", "events": 2})

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("log entry is not valid JSON: %v", err)
	}
	if decoded["level"] != "INFO" {
		t.Errorf("level = %v", decoded["level"])
	}
	if decoded["message"] != "calendar written" {
		t.Errorf("message = %v", decoded["message"])
	}
	fields, ok := decoded["fields"].(map[string]interface{})
	if !ok || fields["calendar"] != "pankow-003" {
		t.Errorf("fields = %v", decoded["fields"])
	}
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter("committees")
	m.IncrCounter("committees")
	m.IncrCounter("calendars")
	m.RecordTiming("fetch", 100*time.Millisecond)
	m.RecordTiming("fetch", 300*time.Millisecond)

	snapshot := m.Snapshot()

	counters, ok := snapshot["counters"].(map[string]int64)
	if !ok {
		t.Fatalf("counters missing from snapshot: %v", snapshot)
	}
	if counters["committees"] != 2 || counters["calendars"] != 1 {
		t.Errorf("counters = %v", counters)
	}

	timings, ok := snapshot["timings"].(map[string]Fields)
	if !ok {
		t.Fatalf("timings missing from snapshot: %v", snapshot)
	}
	fetch := timings["fetch"]
	if fetch["count"] != 2 {
		t.Errorf("fetch count = %v", fetch["count"])
	}
	if fetch["average"] != "200ms" {
		t.Errorf("fetch average = %v", fetch["average"])
	}
}
