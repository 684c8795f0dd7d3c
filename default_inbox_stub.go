//go:build !windows

package main

import (
	"os"
	"path/filepath"
)

// defaultInboxDir is where browsers save downloads, which is where shared
// archives usually land.
func defaultInboxDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	p := filepath.Join(home, "Downloads")
	if st, statErr := os.Stat(p); statErr == nil && st.IsDir() {
		return p
	}
	if st, statErr := os.Stat(home); statErr == nil && st.IsDir() {
		return home
	}
	return ""
}
