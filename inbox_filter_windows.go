//go:build windows

package main

import (
	"path/filepath"
	"syscall"
)

// isHiddenPath treats dotfiles and files with the hidden or system attribute
// as hidden. Office lock files (~$x.docx) carry the hidden attribute.
func isHiddenPath(dir string, name string) bool {
	if isHiddenName(name) {
		return true
	}

	p, err := syscall.UTF16PtrFromString(filepath.Join(dir, name))
	if err != nil {
		return false
	}
	attrs, err := syscall.GetFileAttributes(p)
	if err != nil {
		return false
	}

	const fileAttributeHidden = 0x2
	const fileAttributeSystem = 0x4
	return attrs&(fileAttributeHidden|fileAttributeSystem) != 0
}
