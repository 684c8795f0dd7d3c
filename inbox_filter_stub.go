//go:build !windows

package main

func isHiddenPath(_ string, name string) bool {
	return isHiddenName(name)
}
