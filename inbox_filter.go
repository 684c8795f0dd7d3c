package main

import "strings"

// Suffixes browsers and sync tools use while a download is still in flight.
var inProgressSuffixes = []string{".crdownload", ".part", ".partial", ".download", ".tmp"}

// skipInboxFile reports whether a file in the inbox is not (yet) a shared
// file: hidden entries and in-progress downloads.
func skipInboxFile(dir, name string) bool {
	if name == "" || isHiddenPath(dir, name) {
		return true
	}
	lower := strings.ToLower(name)
	for _, s := range inProgressSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

func isHiddenName(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
