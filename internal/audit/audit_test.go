package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLogWritesEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edits.log")

	l := NewLogger(path, true)
	entry := Entry{
		Timestamp:  time.Now(),
		Machine:    "test-host",
		Op:         OpWriteCell,
		Path:       "/data/budget.xlsx",
		Sheet:      "Sheet2",
		Target:     "B2",
		DurationMs: 42,
	}

	if err := l.Log(context.Background(), entry); err != nil {
		t.Fatal(err)
	}

	entries, err := ReadEntries(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Target != "B2" || entries[0].Op != OpWriteCell {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
	if !entries[0].OK() {
		t.Error("entry without error should be OK")
	}
}

func TestLogFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edits.log")
	l := NewLogger(path, true)
	l.Log(context.Background(), Entry{Op: OpSelect})

	entries, _ := ReadEntries(path)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be filled")
	}
}

func TestLogDisabledIsNoop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edits.log")

	l := NewLogger(path, false)
	l.Log(context.Background(), Entry{Op: OpWriteCell})

	if _, err := os.Stat(path); err == nil {
		t.Error("disabled logger should not create file")
	}
}

func TestNilLoggerIsNoop(t *testing.T) {
	var l *Logger
	if err := l.Log(context.Background(), Entry{Op: OpSelect}); err != nil {
		t.Fatal(err)
	}
}

func TestLogAppendsEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edits.log")

	l := NewLogger(path, true)
	for i := 0; i < 3; i++ {
		l.Log(context.Background(), Entry{Op: OpInsertChart, DurationMs: int64(i)})
	}

	entries, err := ReadEntries(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}
}

func TestLogCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "deep", "edits.log")

	l := NewLogger(path, true)
	l.Log(context.Background(), Entry{Op: OpSelect})

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("expected log file to be created in nested directory")
	}
}

func TestReadEntriesSkipsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edits.log")
	os.WriteFile(path, []byte("{\"op\":\"select\"}\nnot json\n{\"op\":\"write-cell\"}\n"), 0644)

	entries, err := ReadEntries(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}
}

func TestReadEntriesMissingFile(t *testing.T) {
	entries, err := ReadEntries("/nonexistent/edits.log")
	if err != nil {
		t.Fatalf("expected nil error for missing file, got: %v", err)
	}
	if len(entries) != 0 {
		t.Error("expected empty entries for missing file")
	}
}

func TestFilterEntries(t *testing.T) {
	now := time.Now()
	entries := []Entry{
		{Timestamp: now.Add(-2 * time.Hour), Op: OpWriteCell, Path: "/a/budget.xlsx"},
		{Timestamp: now.Add(-1 * time.Hour), Op: OpInsertChart, Path: "/a/sales.xlsx"},
		{Timestamp: now, Op: OpWriteCell, Path: "/a/sales.xlsx"},
	}

	result := FilterEntries(entries, Filter{Op: OpWriteCell})
	if len(result) != 2 {
		t.Errorf("expected 2 write-cell entries, got %d", len(result))
	}

	result = FilterEntries(entries, Filter{Path: "sales"})
	if len(result) != 2 {
		t.Errorf("expected 2 sales entries, got %d", len(result))
	}

	result = FilterEntries(entries, Filter{Since: now.Add(-90 * time.Minute)})
	if len(result) != 2 {
		t.Errorf("expected 2 recent entries, got %d", len(result))
	}

	result = FilterEntries(entries, Filter{Until: now.Add(-90 * time.Minute)})
	if len(result) != 1 {
		t.Errorf("expected 1 old entry, got %d", len(result))
	}
}

func TestLogSize(t *testing.T) {
	size := LogSize("/nonexistent/edits.log")
	if size != 0 {
		t.Errorf("expected 0 for missing file, got %d", size)
	}
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edits.log")
	os.WriteFile(path, []byte("some data\n"), 0644)

	if err := Clear(path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if len(data) != 0 {
		t.Error("expected empty file after clear")
	}

	if err := Clear(filepath.Join(dir, "missing.log")); err != nil {
		t.Errorf("clearing a missing log should succeed, got %v", err)
	}
}

func TestFollowStreamsNewEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edits.log")
	l := NewLogger(path, true)
	l.Log(context.Background(), Entry{Op: OpSelect, Target: "old"})

	f, err := Follow(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Stop()

	l.Log(context.Background(), Entry{Op: OpWriteCell, Target: "C3"})

	select {
	case e := <-f.Entries:
		if e.Target != "C3" {
			t.Errorf("expected only the new entry, got %+v", e)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for followed entry")
	}
}
