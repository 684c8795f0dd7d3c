//go:build windows

package main

import (
	"errors"

	"golang.org/x/sys/windows"
)

var singleInstanceMutex windows.Handle

func tryAcquireSingleInstance(appID string) (primary bool, release func(), err error) {
	ptr, err := windows.UTF16PtrFromString("Local\\" + sanitizeInstanceName(appID))
	if err != nil {
		return false, func() {}, err
	}
	h, err := windows.CreateMutex(nil, false, ptr)
	// CreateMutex can return ERROR_ALREADY_EXISTS together with a valid handle;
	// that is the secondary-instance case, not a failure.
	if err != nil && !errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		return false, func() {}, err
	}
	already := windows.GetLastError() == windows.ERROR_ALREADY_EXISTS || errors.Is(err, windows.ERROR_ALREADY_EXISTS)
	if already {
		_ = windows.CloseHandle(h)
		return false, func() {}, nil
	}

	singleInstanceMutex = h
	return true, func() {
		if singleInstanceMutex != 0 {
			_ = windows.CloseHandle(singleInstanceMutex)
			singleInstanceMutex = 0
		}
	}, nil
}
