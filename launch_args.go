package main

import (
	"net/url"
	"path/filepath"
	"strings"

	"FileBridge/internal/fileintent"
)

// launchOptions is what one process launch asks for: the intent to deliver
// plus host flags.
type launchOptions struct {
	Intent      fileintent.Intent
	LogLevel    string
	InboxDir    string
	MetricsAddr string
	Channel     string
}

// parseLaunchArgs maps process arguments to an intent the way the OS would
// deliver it on Android:
//
//	--share=<path|uri>   send, path in the stream extra
//	<path|uri>           view, path as data (Explorer "Open with", .desktop %U)
//	(nothing)            main, no data
func parseLaunchArgs(args []string) launchOptions {
	var opts launchOptions
	share, positional := "", ""
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--share="):
			share = unquoteArg(strings.TrimPrefix(arg, "--share="))
		case strings.HasPrefix(arg, "--log-level="):
			opts.LogLevel = unquoteArg(strings.TrimPrefix(arg, "--log-level="))
		case strings.HasPrefix(arg, "--inbox="):
			opts.InboxDir = unquoteArg(strings.TrimPrefix(arg, "--inbox="))
		case strings.HasPrefix(arg, "--metrics-addr="):
			opts.MetricsAddr = unquoteArg(strings.TrimPrefix(arg, "--metrics-addr="))
		case strings.HasPrefix(arg, "--channel="):
			opts.Channel = unquoteArg(strings.TrimPrefix(arg, "--channel="))
		case strings.HasPrefix(arg, "-"):
			// Unknown flags (e.g. from the Wails dev runner) are not intents.
		default:
			if positional == "" {
				positional = unquoteArg(arg)
			}
		}
	}

	switch {
	case share != "":
		opts.Intent = fileintent.NewSendIntent(argToURI(share))
	case positional != "":
		opts.Intent = fileintent.NewIntent(fileintent.ActionView, argToURI(positional))
	default:
		opts.Intent = fileintent.NewIntent(fileintent.ActionMain, "")
	}
	return opts
}

func unquoteArg(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\"")
}

// argToURI keeps URIs as they are and turns plain paths into file: URIs.
func argToURI(arg string) string {
	if arg == "" {
		return ""
	}
	if strings.Contains(arg, "://") {
		return arg
	}
	return pathToFileURI(arg)
}

func pathToFileURI(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	p = filepath.ToSlash(p)
	if filepath.VolumeName(p) != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
