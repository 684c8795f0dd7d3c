package fileintent

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"

	"FileBridge/internal/metrics"
)

type recordingMessenger struct {
	mu    sync.Mutex
	sent  []MethodCall
	chans []string
}

func (m *recordingMessenger) Send(channel string, call MethodCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chans = append(m.chans, channel)
	m.sent = append(m.sent, call)
}

func (m *recordingMessenger) calls() []MethodCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MethodCall(nil), m.sent...)
}

func newTestReceiver(t *testing.T, contents ContentResolver) (*Receiver, *recordingMessenger) {
	t.Helper()
	res := NewResolver(contents, zaptest.NewLogger(t))
	res.goos = "linux"
	r := NewReceiver("", res, zaptest.NewLogger(t))
	m := &recordingMessenger{}
	r.Channel().SetMessenger(m)
	return r, m
}

func pull(t *testing.T, r *Receiver) any {
	t.Helper()
	v, err := r.Channel().Invoke(context.Background(), MethodGetSharedFilePath, nil)
	if err != nil {
		t.Fatalf("getSharedFilePath failed: %v", err)
	}
	return v
}

func TestViewFileJSONBecomesPendingAndPushes(t *testing.T) {
	r, m := newTestReceiver(t, nil)

	r.OnCreate(context.Background(), NewIntent(ActionView, "file:///sdcard/Download/inspection.json"))

	calls := m.calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 push, got %d", len(calls))
	}
	if calls[0].Method != MethodFileReceived || calls[0].Arguments != "/sdcard/Download/inspection.json" {
		t.Fatalf("unexpected push %+v", calls[0])
	}
	if m.chans[0] != DefaultChannelName {
		t.Fatalf("expected push on %q, got %q", DefaultChannelName, m.chans[0])
	}
	if got := pull(t, r); got != "/sdcard/Download/inspection.json" {
		t.Fatalf("unexpected pull %v", got)
	}
}

func TestSendStreamExtraIsUsed(t *testing.T) {
	r, _ := newTestReceiver(t, nil)

	in := NewSendIntent("file:///sdcard/backup.zip")
	in.Data = "file:///sdcard/ignored.json"
	r.OnNewIntent(context.Background(), in)

	if got := pull(t, r); got != "/sdcard/backup.zip" {
		t.Fatalf("expected stream extra path, got %v", got)
	}
}

func TestMainWithoutDataDoesNothing(t *testing.T) {
	r, m := newTestReceiver(t, nil)

	r.OnCreate(context.Background(), NewIntent(ActionMain, ""))

	if len(m.calls()) != 0 {
		t.Fatalf("expected no push")
	}
	if got := pull(t, r); got != nil {
		t.Fatalf("expected nil pull, got %v", got)
	}
}

func TestMainWithDataIsHandled(t *testing.T) {
	r, _ := newTestReceiver(t, nil)
	r.OnCreate(context.Background(), NewIntent(ActionMain, "file:///data/a.zip"))
	if got := pull(t, r); got != "/data/a.zip" {
		t.Fatalf("expected main data path, got %v", got)
	}
}

func TestUnsupportedSuffixNeverPending(t *testing.T) {
	r, m := newTestReceiver(t, nil)

	for _, uri := range []string{
		"file:///sdcard/photo.jpg",
		"file:///sdcard/DATA.JSON",
		"file:///sdcard/archive.ZIP",
		"file:///sdcard/json",
	} {
		r.OnNewIntent(context.Background(), NewIntent(ActionView, uri))
	}

	if len(m.calls()) != 0 {
		t.Fatalf("expected no push, got %v", m.calls())
	}
	if _, ok := r.PendingSharedFilePath(); ok {
		t.Fatalf("expected no pending path")
	}
}

func TestUnknownActionIgnored(t *testing.T) {
	r, m := newTestReceiver(t, nil)
	r.OnNewIntent(context.Background(), NewIntent("android.intent.action.EDIT", "file:///sdcard/a.json"))
	if len(m.calls()) != 0 {
		t.Fatalf("expected no push for unknown action")
	}
}

func TestContentNoRowsNoPush(t *testing.T) {
	r, m := newTestReceiver(t, contentResolverFunc(func(context.Context, *url.URL) (Cursor, error) {
		return &RowCursor{Columns: []string{ColumnData}}, nil
	}))

	r.OnCreate(context.Background(), NewIntent(ActionView, "content://media/external/file/9"))

	if len(m.calls()) != 0 {
		t.Fatalf("expected no push")
	}
	if got := pull(t, r); got != nil {
		t.Fatalf("expected nil pull, got %v", got)
	}
}

func TestContentResolvedPathIsPending(t *testing.T) {
	r, m := newTestReceiver(t, contentResolverFunc(func(context.Context, *url.URL) (Cursor, error) {
		return dataCursor(strPtr("/storage/emulated/0/Download/x.zip")), nil
	}))

	r.OnNewIntent(context.Background(), NewSendIntent("content://media/external/file/9"))

	if len(m.calls()) != 1 {
		t.Fatalf("expected 1 push, got %d", len(m.calls()))
	}
	if got := pull(t, r); got != "/storage/emulated/0/Download/x.zip" {
		t.Fatalf("unexpected pull %v", got)
	}
}

func TestPullConsumesOnce(t *testing.T) {
	r, _ := newTestReceiver(t, nil)
	before := testutil.ToFloat64(metrics.Deliveries("pull"))

	r.OnCreate(context.Background(), NewIntent(ActionView, "file:///a.json"))

	if got := pull(t, r); got != "/a.json" {
		t.Fatalf("first pull: expected /a.json, got %v", got)
	}
	if got := pull(t, r); got != nil {
		t.Fatalf("second pull: expected nil, got %v", got)
	}
	if after := testutil.ToFloat64(metrics.Deliveries("pull")); after != before+1 {
		t.Fatalf("expected one pull delivery, before=%v after=%v", before, after)
	}
}

func TestLastWriteWins(t *testing.T) {
	r, m := newTestReceiver(t, nil)

	r.OnNewIntent(context.Background(), NewIntent(ActionView, "file:///first.json"))
	r.OnNewIntent(context.Background(), NewSendIntent("file:///second.zip"))

	if len(m.calls()) != 2 {
		t.Fatalf("expected a push per accepted intent, got %d", len(m.calls()))
	}
	if got := pull(t, r); got != "/second.zip" {
		t.Fatalf("expected latest path, got %v", got)
	}
	if got := pull(t, r); got != nil {
		t.Fatalf("expected nil after consuming latest, got %v", got)
	}
}

func TestPushWithoutMessengerKeepsPending(t *testing.T) {
	r, _ := newTestReceiver(t, nil)
	r.Channel().SetMessenger(nil)

	if _, ok := r.HandleIntent(context.Background(), NewIntent(ActionView, "file:///early.json")); !ok {
		t.Fatalf("expected intent to be accepted")
	}
	if got := pull(t, r); got != "/early.json" {
		t.Fatalf("expected pending path to survive a dropped push, got %v", got)
	}
}

func TestUnknownMethodNotImplemented(t *testing.T) {
	r, _ := newTestReceiver(t, nil)
	_, err := r.Channel().Invoke(context.Background(), "deleteEverything", nil)
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

func TestConcurrentDeliveryAndPull(t *testing.T) {
	r, _ := newTestReceiver(t, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	got := 0
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.OnNewIntent(context.Background(), NewIntent(ActionView, "file:///x.json"))
		}()
		go func() {
			defer wg.Done()
			if p := r.TakeSharedFilePath(); p != nil {
				mu.Lock()
				got++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if p := r.TakeSharedFilePath(); p != nil {
		got++
	}
	if got == 0 || got > 20 {
		t.Fatalf("each accepted path must be taken at most once, got %d takes", got)
	}
}

func TestNilResolverHandlesFileURIs(t *testing.T) {
	r := NewReceiver("", nil, zaptest.NewLogger(t))
	ctx := context.Background()

	if p, ok := r.HandleIntent(ctx, NewIntent(ActionView, "file:///tmp/a.json")); !ok || p != "/tmp/a.json" {
		t.Fatalf("expected file uri to resolve without a resolver, got %q ok=%v", p, ok)
	}
	if _, ok := r.HandleIntent(ctx, NewIntent(ActionView, "content://media/external/file/7")); ok {
		t.Fatalf("expected content uri not to resolve without a content resolver")
	}
}
