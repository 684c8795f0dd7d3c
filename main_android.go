//go:build android

package main

import (
	"context"
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"FileBridge/internal/fileintent"
	"FileBridge/internal/logging"
)

func runNative(fn func(env, activity uintptr) error) error {
	return driver.RunNative(func(ctx any) error {
		ac, ok := ctx.(*driver.AndroidContext)
		if !ok {
			return errors.New("no android context")
		}
		return fn(ac.Env, ac.Ctx)
	})
}

func intentKey(in fileintent.Intent) string {
	return in.Action + "\x00" + in.Data + "\x00" + in.Extra(fileintent.ExtraStream)
}

// main is the Android host. Fyne has no onNewIntent hook, so the intent is
// re-read whenever the activity returns to the foreground and handled again
// only when it changed.
func main() {
	log := logging.Init(logging.Config{Level: "debug"})
	defer func() { _ = logging.Sync() }()

	ctx := context.Background()
	a := app.NewWithID("com.example.filebridge")
	w := a.NewWindow("FileBridge")

	received := widget.NewLabel("No file received")
	resolver := fileintent.NewResolver(fileintent.NewJNIContentResolver(runNative), log.Named("resolver"))
	receiver := fileintent.NewReceiver(fileintent.DefaultChannelName, resolver, log.Named("intent"))
	receiver.Channel().SetMessenger(fileintent.MessengerFunc(func(_ string, call fileintent.MethodCall) {
		if p, ok := call.Arguments.(string); ok {
			fyne.Do(func() { received.SetText(p) })
		}
	}))

	open := widget.NewButton("Open received file", func() {
		v, err := receiver.Channel().Invoke(ctx, fileintent.MethodGetSharedFilePath, nil)
		if err != nil {
			log.Error("pull failed", zap.Error(err))
			return
		}
		if p, ok := v.(string); ok {
			received.SetText("Opened " + p)
		}
	})

	lastKey := ""
	deliver := func(first bool) {
		in, err := fileintent.ReadActivityIntent(runNative)
		if err != nil {
			log.Warn("read intent failed", zap.Error(err))
			return
		}
		key := intentKey(in)
		if !first && key == lastKey {
			return
		}
		lastKey = key
		if first {
			receiver.OnCreate(ctx, in)
		} else {
			receiver.OnNewIntent(ctx, in)
		}
	}
	a.Lifecycle().SetOnStarted(func() { deliver(true) })
	a.Lifecycle().SetOnEnteredForeground(func() { deliver(false) })

	w.SetContent(container.NewVBox(received, open))
	w.ShowAndRun()
}
