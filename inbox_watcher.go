package main

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"FileBridge/internal/fileintent"
)

const inboxSettleDelay = 250 * time.Millisecond

// inboxWatcher turns files dropped into a directory into send intents, the
// desktop counterpart of "Share to FileBridge".
type inboxWatcher struct {
	watcher *fsnotify.Watcher
	dir     string
	deliver func(fileintent.Intent)
	settle  time.Duration
	log     *zap.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func newInboxWatcher(dir string, deliver func(fileintent.Intent), log *zap.Logger) (*inboxWatcher, error) {
	dir = filepath.Clean(dir)
	st, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, errors.New("inbox is not a directory")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &inboxWatcher{
		watcher: w,
		dir:     dir,
		deliver: deliver,
		settle:  inboxSettleDelay,
		log:     log,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

func (iw *inboxWatcher) Start() error {
	if err := iw.watcher.Add(iw.dir); err != nil {
		_ = iw.watcher.Close()
		return err
	}
	go iw.loop()
	return nil
}

func (iw *inboxWatcher) Stop() {
	iw.stopOnce.Do(func() {
		close(iw.stopCh)
		_ = iw.watcher.Close()
	})
	<-iw.doneCh
}

func (iw *inboxWatcher) loop() {
	defer close(iw.doneCh)

	// Paths still being written; each write pushes its deadline back.
	pending := map[string]time.Time{}
	var timer *time.Timer

	flush := func(now time.Time) {
		next := time.Duration(0)
		for p, due := range pending {
			if wait := due.Sub(now); wait > 0 {
				if next == 0 || wait < next {
					next = wait
				}
				continue
			}
			delete(pending, p)
			iw.offer(p)
		}
		if next > 0 {
			timer.Reset(next)
		}
	}

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C
		}
		select {
		case <-iw.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		case err, ok := <-iw.watcher.Errors:
			if !ok {
				return
			}
			iw.log.Warn("inbox watcher error", zap.Error(err))
		case ev, ok := <-iw.watcher.Events:
			if !ok {
				return
			}
			if ev.Name == "" || !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			pending[filepath.Clean(ev.Name)] = time.Now().Add(iw.settle)
			if timer == nil {
				timer = time.NewTimer(iw.settle)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(iw.settle)
			}
		case now := <-timerC:
			flush(now)
		}
	}
}

func (iw *inboxWatcher) offer(path string) {
	dir, name := filepath.Split(path)
	if skipInboxFile(filepath.Clean(dir), name) || !fileintent.Accepts(path) {
		return
	}
	st, err := os.Stat(path)
	if err != nil || !st.Mode().IsRegular() {
		return
	}
	iw.log.Debug("inbox file settled", zap.String("path", path))
	iw.deliver(fileintent.NewSendIntent(pathToFileURI(path)))
}
