package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	settingKeyLogLevel          = "logLevel"
	settingKeyInboxDir          = "inboxDir"
	settingKeyChannelName       = "channelName"
	settingKeyMetricsAddr       = "metricsAddr"
	settingKeyProviderAuthority = "providerAuthority"
	settingKeyProviderRoot      = "providerRoot"
)

// hostSettingFields maps each persisted key to the hostConfig field it backs.
var hostSettingFields = map[string]func(*hostConfig) *string{
	settingKeyLogLevel:          func(c *hostConfig) *string { return &c.LogLevel },
	settingKeyInboxDir:          func(c *hostConfig) *string { return &c.InboxDir },
	settingKeyChannelName:       func(c *hostConfig) *string { return &c.Channel },
	settingKeyMetricsAddr:       func(c *hostConfig) *string { return &c.MetricsAddr },
	settingKeyProviderAuthority: func(c *hostConfig) *string { return &c.ProviderAuthority },
	settingKeyProviderRoot:      func(c *hostConfig) *string { return &c.ProviderRoot },
}

// SettingsStore is settings.json: the host settings the user changed at
// runtime. Every value the host writes is a string; keys it does not know are
// kept as they are so an older or newer build can share the file.
type SettingsStore struct {
	mu     sync.Mutex
	path   string
	loaded bool
	values map[string]json.RawMessage
}

func NewSettingsStore() *SettingsStore {
	cfgDir, err := os.UserConfigDir()
	if err != nil || cfgDir == "" {
		cfgDir = "."
	}
	return newSettingsStoreAt(filepath.Join(cfgDir, "file-bridge", "settings.json"))
}

func newSettingsStoreAt(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// loadLocked reads the file once. A missing, empty or corrupted file reads as
// no settings; it must never stop intents from being delivered.
func (s *SettingsStore) loadLocked() {
	if s.loaded {
		return
	}
	s.loaded = true
	s.values = map[string]json.RawMessage{}

	b, err := os.ReadFile(s.path)
	if err != nil || len(b) == 0 {
		return
	}
	var m map[string]json.RawMessage
	if json.Unmarshal(b, &m) == nil && m != nil {
		s.values = m
	}
}

func (s *SettingsStore) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

func (s *SettingsStore) stringLocked(key string) string {
	raw, ok := s.values[key]
	if !ok {
		return ""
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

// String returns the setting stored under key. Unset and non-string values
// read as "".
func (s *SettingsStore) String(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	return s.stringLocked(key)
}

// SetString stores value under key and writes the file. A blank value
// removes the key, so the default or launch flag applies again.
func (s *SettingsStore) SetString(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()

	value = strings.TrimSpace(value)
	if value == "" {
		if _, ok := s.values[key]; !ok {
			return nil
		}
		delete(s.values, key)
		return s.saveLocked()
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.values[key] = b
	return s.saveLocked()
}

// applyTo overwrites the fields of cfg that have a stored setting.
func (s *SettingsStore) applyTo(cfg *hostConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	for key, field := range hostSettingFields {
		if v := s.stringLocked(key); v != "" {
			*field(cfg) = v
		}
	}
}

var errUnknownSetting = errors.New("unknown setting")

// saveHostSetting persists one of the host's own keys.
func (s *SettingsStore) saveHostSetting(key, value string) error {
	if _, ok := hostSettingFields[key]; !ok {
		return errUnknownSetting
	}
	return s.SetString(key, value)
}
