//go:build linux || darwin || freebsd || openbsd || netbsd || dragonfly

package main

import (
	"errors"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// tryAcquireSingleInstance holds an exclusive flock on a lock file in the
// cache dir for the life of the process. release is never nil, even with an
// error.
func tryAcquireSingleInstance(appID string) (primary bool, release func(), err error) {
	dir, err := instanceDir(appID)
	if err != nil {
		return false, func() {}, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "instance.lock"), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return false, func() {}, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return false, func() {}, nil
		}
		return false, func() {}, err
	}
	return true, func() {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		_ = f.Close()
	}, nil
}
