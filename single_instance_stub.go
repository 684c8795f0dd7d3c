//go:build !windows && !linux && !darwin && !freebsd && !openbsd && !netbsd && !dragonfly

package main

func tryAcquireSingleInstance(appID string) (primary bool, release func(), err error) {
	return true, func() {}, nil
}
