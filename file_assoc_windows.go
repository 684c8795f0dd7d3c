//go:build windows

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sys/windows/registry"
)

// Per-user verbs (no admin rights needed); HKCU\Software\Classes merges into
// HKCR. SystemFileAssociations adds the verb without taking over the
// extension's default handler.
const (
	fileAssocVerb        = "FileBridge"
	fileAssocDisplayName = "Open with FileBridge"
)

var fileAssocExtensions = []string{".zip", ".json"}

func fileAssocKey(ext string) string {
	return `Software\Classes\SystemFileAssociations\` + ext + `\shell\` + fileAssocVerb
}

func (a *App) CheckFileAssociations() (FileAssociationStatus, error) {
	status := FileAssociationStatus{Extensions: map[string]bool{}}
	for _, ext := range fileAssocExtensions {
		exists, err := checkRegKeyExists(fileAssocKey(ext) + `\command`)
		if err != nil {
			return FileAssociationStatus{}, err
		}
		status.Extensions[ext] = exists
		status.Exists = status.Exists || exists
	}
	return status, nil
}

func (a *App) SetFileAssociationsEnabled(enable bool) error {
	if enable {
		return addFileAssociations(a.log)
	}
	return removeFileAssociations()
}

func checkRegKeyExists(key string) (bool, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, key, registry.QUERY_VALUE)
	if err == nil {
		_ = k.Close()
		return true, nil
	}
	if err == registry.ErrNotExist {
		return false, nil
	}
	return false, err
}

func addFileAssociations(log *zap.Logger) error {
	exePath, err := os.Executable()
	if err != nil {
		return err
	}
	exePath, err = filepath.Abs(exePath)
	if err != nil {
		return err
	}
	resolved := resolveAssocExePath(exePath)

	// Quote both so paths with spaces survive.
	iconValue := fmt.Sprintf(`"%s",0`, resolved)
	command := fmt.Sprintf(`"%s" "%%1"`, resolved)

	for _, ext := range fileAssocExtensions {
		key := fileAssocKey(ext)
		if err := ensureKeyStringValue(key, "", fileAssocDisplayName); err != nil {
			return err
		}
		if err := ensureKeyStringValue(key, "Icon", iconValue); err != nil {
			return err
		}
		if err := ensureKeyStringValue(key+`\command`, "", command); err != nil {
			return err
		}
	}
	log.Info("file associations written", zap.String("exe", resolved))
	return nil
}

func ensureKeyStringValue(subKey string, valueName string, value string) error {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, subKey, registry.SET_VALUE|registry.CREATE_SUB_KEY)
	if err != nil {
		return err
	}
	defer func() { _ = k.Close() }()
	return k.SetStringValue(valueName, value)
}

// resolveAssocExePath prefers the built exe over the *-dev.exe that
// `wails dev` runs, which Explorer cannot reliably start.
func resolveAssocExePath(exePath string) string {
	base := strings.TrimSuffix(filepath.Base(exePath), filepath.Ext(exePath))
	if !strings.HasSuffix(strings.ToLower(base), "-dev") {
		return exePath
	}
	stablePath := filepath.Join(filepath.Dir(exePath), strings.TrimSuffix(base, "-dev")+filepath.Ext(exePath))
	if st, err := os.Stat(stablePath); err == nil && !st.IsDir() {
		return stablePath
	}
	return exePath
}

func removeFileAssociations() error {
	// Children first; a missing key counts as removed.
	for _, ext := range fileAssocExtensions {
		for _, k := range []string{fileAssocKey(ext) + `\command`, fileAssocKey(ext)} {
			err := registry.DeleteKey(registry.CURRENT_USER, k)
			if err == nil || err == registry.ErrNotExist {
				continue
			}
			return err
		}
	}
	return nil
}
