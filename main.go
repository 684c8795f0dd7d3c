//go:build !android

package main

import (
	"embed"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"go.uber.org/zap"

	"FileBridge/internal/logging"
)

//go:embed all:frontend/dist
var assets embed.FS

const appID = "FileBridge"

func main() {
	launch := parseLaunchArgs(os.Args[1:])
	settings := NewSettingsStore()
	cfg := loadHostConfig(settings, launch)

	log := logging.Init(logging.Config{Level: cfg.LogLevel, LaunchLogPath: logging.DefaultLaunchLogPath()})
	defer func() { _ = logging.Sync() }()

	exe, _ := os.Executable()
	// `wails dev` runs a temporary wailsbindings binary to generate bindings.
	// It must not take the single-instance lock, or the real app would see
	// itself as a secondary and exit.
	skipSingleInstance := strings.Contains(strings.ToLower(filepath.Base(exe)), "wailsbindings")
	log.Info("launch",
		zap.String("exe", exe),
		zap.Strings("args", os.Args[1:]),
		zap.String("intent", launch.Intent.ID),
		zap.String("action", launch.Intent.Action),
		zap.String("data", launch.Intent.Data),
		zap.Any("extras", launch.Intent.Extras),
	)

	primary, releaseLock, err := true, func() {}, error(nil)
	if !skipSingleInstance {
		var release func()
		primary, release, err = tryAcquireSingleInstance(appID)
		if release != nil {
			releaseLock = release
		}
	}
	if err != nil {
		log.Warn("single-instance acquire failed", zap.Error(err))
		primary = true
	} else if !primary {
		// Another instance is running: hand it this launch's intent and exit.
		log.Info("secondary instance, forwarding intent")
		if err := notifyExistingInstance(appID, launch.Intent); err != nil {
			log.Error("forward intent failed", zap.Error(err))
		}
		return
	}
	defer releaseLock()

	var ipcLn net.Listener
	if primary && !skipSingleInstance {
		ln, cleanup, err := startInstanceIPC(appID)
		if err != nil {
			log.Warn("single-instance ipc start failed", zap.Error(err))
		} else {
			ipcLn = ln
			defer cleanup()
		}
	}

	app := NewApp(cfg, settings, launch.Intent, log)
	if ipcLn != nil {
		app.setIPCListener(ipcLn)
	}

	err = wails.Run(&options.App{
		Title:  "FileBridge",
		Width:  864,
		Height: 700,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.Error("wails run failed", zap.Error(err))
	}
}
