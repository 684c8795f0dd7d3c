package main

import (
	"strings"

	"FileBridge/internal/fileintent"
)

const defaultProviderAuthority = "filebridge.files"

// hostConfig is the desktop host configuration: launch flags override
// settings.json, which overrides the defaults.
type hostConfig struct {
	LogLevel          string
	InboxDir          string
	MetricsAddr       string
	Channel           string
	ProviderAuthority string
	ProviderRoot      string
}

func defaultHostConfig() hostConfig {
	return hostConfig{
		LogLevel:          "info",
		Channel:           fileintent.DefaultChannelName,
		ProviderAuthority: defaultProviderAuthority,
		ProviderRoot:      defaultInboxDir(),
	}
}

func loadHostConfig(store *SettingsStore, opts launchOptions) hostConfig {
	cfg := defaultHostConfig()
	if store != nil {
		store.applyTo(&cfg)
	}
	overrideString(&cfg.LogLevel, opts.LogLevel)
	overrideString(&cfg.InboxDir, opts.InboxDir)
	overrideString(&cfg.Channel, opts.Channel)
	overrideString(&cfg.MetricsAddr, opts.MetricsAddr)
	return cfg
}

func overrideString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
