package main

import (
	"context"
	"net/url"
	"path/filepath"
	"testing"

	"FileBridge/internal/fileintent"
)

func TestParseLaunchArgsNoArgsIsMain(t *testing.T) {
	opts := parseLaunchArgs(nil)
	if opts.Intent.Action != fileintent.ActionMain || opts.Intent.Data != "" {
		t.Fatalf("expected bare main intent, got %+v", opts.Intent)
	}
}

func TestParseLaunchArgsPositionalPathIsView(t *testing.T) {
	p := filepath.Join(t.TempDir(), "inspection.json")
	opts := parseLaunchArgs([]string{`"` + p + `"`})
	if opts.Intent.Action != fileintent.ActionView {
		t.Fatalf("expected view intent, got %q", opts.Intent.Action)
	}
	u, err := url.Parse(opts.Intent.Data)
	if err != nil || u.Scheme != "file" {
		t.Fatalf("expected file uri, got %q err=%v", opts.Intent.Data, err)
	}
}

func TestParseLaunchArgsKeepsURIs(t *testing.T) {
	opts := parseLaunchArgs([]string{"file:///tmp/a%20b.zip"})
	if opts.Intent.Data != "file:///tmp/a%20b.zip" {
		t.Fatalf("expected uri kept verbatim, got %q", opts.Intent.Data)
	}
}

func TestParseLaunchArgsShareIsSend(t *testing.T) {
	opts := parseLaunchArgs([]string{"--share=content://filebridge.files/a.zip", "ignored.json"})
	if opts.Intent.Action != fileintent.ActionSend {
		t.Fatalf("expected send intent, got %q", opts.Intent.Action)
	}
	if got := opts.Intent.Extra(fileintent.ExtraStream); got != "content://filebridge.files/a.zip" {
		t.Fatalf("unexpected stream extra %q", got)
	}
}

func TestParseLaunchArgsHostFlags(t *testing.T) {
	opts := parseLaunchArgs([]string{
		"--log-level=debug",
		"--inbox=/srv/inbox",
		"--metrics-addr=127.0.0.1:9109",
		"--channel=custom/file_intent",
		"--unknown-flag",
	})
	if opts.LogLevel != "debug" || opts.InboxDir != "/srv/inbox" || opts.MetricsAddr != "127.0.0.1:9109" || opts.Channel != "custom/file_intent" {
		t.Fatalf("unexpected host flags %+v", opts)
	}
	if opts.Intent.Action != fileintent.ActionMain {
		t.Fatalf("flags alone must not produce a file intent, got %+v", opts.Intent)
	}
}

func TestPathToFileURIRoundTripsThroughResolver(t *testing.T) {
	p := filepath.Join(t.TempDir(), "with space.json")
	uri := pathToFileURI(p)
	res := fileintent.NewResolver(nil, nil)
	got, ok := res.Resolve(context.Background(), uri)
	if !ok {
		t.Fatalf("expected %q to resolve", uri)
	}
	if filepath.Clean(filepath.FromSlash(got)) != filepath.Clean(p) {
		t.Fatalf("expected %q, got %q", p, got)
	}
}
