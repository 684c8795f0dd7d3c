//go:build !android

package main

import (
	"context"
	"net"
	"strings"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"FileBridge/internal/fileintent"
	"FileBridge/internal/logging"
)

// App is the desktop host. Its exported methods are bound to the frontend.
type App struct {
	ctx           context.Context
	log           *zap.Logger
	cfg           hostConfig
	settings      *SettingsStore
	receiver      *fileintent.Receiver
	initialIntent fileintent.Intent

	// Swapped out in tests; the Wails runtime needs a live frontend.
	emit  func(ctx context.Context, eventName string, optionalData ...interface{})
	raise func(ctx context.Context)

	ipcOnce     sync.Once
	ipcListener net.Listener

	inboxMu sync.Mutex
	inbox   *inboxWatcher

	stopMetrics func()
}

// NewApp creates the host; initial is the intent this process was launched with.
func NewApp(cfg hostConfig, settings *SettingsStore, initial fileintent.Intent, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	providers := fileintent.NewProviderRegistry()
	if cfg.ProviderRoot != "" && cfg.ProviderAuthority != "" {
		providers.Register(cfg.ProviderAuthority, fileintent.FileProvider{Root: cfg.ProviderRoot})
	}
	resolver := fileintent.NewResolver(providers, log.Named("resolver"))
	return &App{
		log:           log,
		cfg:           cfg,
		settings:      settings,
		receiver:      fileintent.NewReceiver(cfg.Channel, resolver, log.Named("intent")),
		initialIntent: initial,
		emit:          runtime.EventsEmit,
		raise:         raiseWindow,
	}
}

func (a *App) setIPCListener(ln net.Listener) {
	a.ipcListener = ln
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.receiver.Channel().SetMessenger(fileintent.MessengerFunc(func(channel string, call fileintent.MethodCall) {
		a.emit(ctx, channel, call)
	}))

	// The frontend is not listening yet; the push is best effort and the
	// frontend pulls on load.
	a.receiver.OnCreate(ctx, a.initialIntent)
	a.startIPCListener()

	if a.cfg.InboxDir != "" {
		if err := a.watchInbox(a.cfg.InboxDir); err != nil {
			a.log.Warn("inbox watcher not started", zap.String("dir", a.cfg.InboxDir), zap.Error(err))
		}
	}
	if a.cfg.MetricsAddr != "" {
		_, stop, err := startMetricsServer(a.cfg.MetricsAddr, a.log)
		if err != nil {
			a.log.Warn("metrics server not started", zap.String("addr", a.cfg.MetricsAddr), zap.Error(err))
		} else {
			a.stopMetrics = stop
		}
	}
}

func (a *App) shutdown(_ context.Context) {
	a.receiver.Channel().SetMessenger(nil)
	a.stopInbox()
	if a.stopMetrics != nil {
		a.stopMetrics()
	}
}

func (a *App) startIPCListener() {
	if a.ipcListener == nil {
		return
	}
	a.ipcOnce.Do(func() {
		go func() {
			for {
				conn, err := a.ipcListener.Accept()
				if err != nil {
					return
				}
				go a.handleIPCConn(conn)
			}
		}()
	})
}

// handleIPCConn delivers an intent forwarded by a second launch, the
// desktop equivalent of onNewIntent.
func (a *App) handleIPCConn(conn net.Conn) {
	defer func() { _ = conn.Close() }()
	if a.ctx == nil {
		return
	}

	in, err := readForwardedIntent(conn)
	if err != nil {
		a.log.Warn("ipc intent rejected", zap.Error(err))
		return
	}
	a.raise(a.ctx)
	a.receiver.OnNewIntent(a.ctx, in)
}

func raiseWindow(ctx context.Context) {
	runtime.WindowShow(ctx)
	runtime.WindowUnminimise(ctx)
	// Briefly pinning on top makes Windows actually bring the window forward.
	runtime.WindowSetAlwaysOnTop(ctx, true)
	runtime.WindowSetAlwaysOnTop(ctx, false)
}

func (a *App) watchInbox(dir string) error {
	iw, err := newInboxWatcher(dir, func(in fileintent.Intent) {
		a.receiver.OnNewIntent(a.ctx, in)
	}, a.log.Named("inbox"))
	if err != nil {
		return err
	}
	if err := iw.Start(); err != nil {
		return err
	}

	a.inboxMu.Lock()
	prev := a.inbox
	a.inbox = iw
	a.cfg.InboxDir = dir
	a.inboxMu.Unlock()
	if prev != nil {
		prev.Stop()
	}
	a.log.Info("watching inbox", zap.String("dir", dir))
	return nil
}

func (a *App) stopInbox() {
	a.inboxMu.Lock()
	iw := a.inbox
	a.inbox = nil
	a.cfg.InboxDir = ""
	a.inboxMu.Unlock()
	if iw != nil {
		iw.Stop()
	}
}

// GetSharedFilePath returns the pending shared file path, or null, and
// clears it.
func (a *App) GetSharedFilePath() *string {
	return a.receiver.TakeSharedFilePath()
}

// InvokeMethod calls a method on the file intent channel by name.
func (a *App) InvokeMethod(method string) (any, error) {
	return a.receiver.Channel().Invoke(a.ctx, method, nil)
}

func (a *App) GetChannelName() string {
	return a.receiver.Channel().Name()
}

func (a *App) GetBridgeInfo() BridgeInfo {
	a.inboxMu.Lock()
	inbox := a.cfg.InboxDir
	a.inboxMu.Unlock()
	return BridgeInfo{
		Channel:           a.receiver.Channel().Name(),
		InboxDir:          inbox,
		ProviderAuthority: a.cfg.ProviderAuthority,
		ProviderRoot:      a.cfg.ProviderRoot,
		Version:           Version,
	}
}

// SetInboxDir starts watching dir for shared files and remembers it. An
// empty dir stops watching.
func (a *App) SetInboxDir(dir string) error {
	dir = strings.Trim(strings.TrimSpace(dir), "\"")
	if dir == "" {
		a.stopInbox()
	} else if err := a.watchInbox(dir); err != nil {
		return err
	}
	if a.settings == nil {
		return nil
	}
	return a.settings.saveHostSetting(settingKeyInboxDir, dir)
}

// SetLogLevel changes the log level of the running host and remembers it for
// the next launch.
func (a *App) SetLogLevel(level string) error {
	level = strings.ToLower(strings.TrimSpace(level))
	if err := logging.SetLevel(level); err != nil {
		return err
	}
	a.log.Info("log level changed", zap.String("level", level))
	if a.settings == nil {
		return nil
	}
	return a.settings.saveHostSetting(settingKeyLogLevel, level)
}

func (a *App) PickInboxDir() (string, error) {
	if a.ctx == nil {
		return "", nil
	}
	return runtime.OpenDirectoryDialog(a.ctx, runtime.OpenDialogOptions{
		Title:            "Choose a folder to watch for shared files",
		DefaultDirectory: defaultInboxDir(),
	})
}
