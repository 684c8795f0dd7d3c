package main

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"FileBridge/internal/fileintent"
)

type intentLog struct {
	mu      sync.Mutex
	intents []fileintent.Intent
}

func (l *intentLog) add(in fileintent.Intent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intents = append(l.intents, in)
}

func (l *intentLog) snapshot() []fileintent.Intent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]fileintent.Intent(nil), l.intents...)
}

func startTestInbox(t *testing.T, dir string, settle time.Duration) *intentLog {
	t.Helper()
	got := &intentLog{}
	iw, err := newInboxWatcher(dir, got.add, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("new inbox watcher failed: %v", err)
	}
	iw.settle = settle
	if err := iw.Start(); err != nil {
		t.Fatalf("start inbox watcher failed: %v", err)
	}
	t.Cleanup(iw.Stop)
	return got
}

func TestInboxWritesSettleIntoOneIntent(t *testing.T) {
	dir := t.TempDir()
	got := startTestInbox(t, dir, 150*time.Millisecond)

	path := filepath.Join(dir, "backup.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := f.WriteString("chunk"); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	_ = f.Close()

	time.Sleep(800 * time.Millisecond)
	intents := got.snapshot()
	if len(intents) != 1 {
		t.Fatalf("expected one intent for a file written in bursts, got %d", len(intents))
	}
	in := intents[0]
	if in.Action != fileintent.ActionSend || !strings.HasSuffix(in.Extra(fileintent.ExtraStream), "backup.zip") {
		t.Fatalf("unexpected intent %+v", in)
	}
}

func TestInboxSkipsUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()
	got := startTestInbox(t, dir, 50*time.Millisecond)

	writeFile(t, filepath.Join(dir, "notes.txt"), "x")
	writeFile(t, filepath.Join(dir, ".hidden.json"), "{}")
	writeFile(t, filepath.Join(dir, "survey.json.part"), "{}")
	writeFile(t, filepath.Join(dir, "survey.json"), "{}")

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) && len(got.snapshot()) == 0 {
		time.Sleep(25 * time.Millisecond)
	}
	time.Sleep(200 * time.Millisecond)

	intents := got.snapshot()
	if len(intents) != 1 || !strings.HasSuffix(intents[0].Extra(fileintent.ExtraStream), "survey.json") {
		t.Fatalf("expected only survey.json to be offered, got %+v", intents)
	}
}

func TestNewInboxWatcherRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.json")
	writeFile(t, path, "{}")
	if _, err := newInboxWatcher(path, func(fileintent.Intent) {}, nil); err == nil {
		t.Fatalf("expected error for a file instead of a directory")
	}
}
