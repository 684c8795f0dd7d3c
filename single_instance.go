package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"FileBridge/internal/fileintent"
)

// maxForwardedIntent bounds what a secondary instance may send.
const maxForwardedIntent = 16 * 1024

type instanceInfo struct {
	Port int `json:"port"`
}

func instanceDir(appID string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "FileBridge", sanitizeInstanceName(appID))
	if err := os.MkdirAll(p, 0o755); err != nil {
		return "", err
	}
	return p, nil
}

func sanitizeInstanceName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "app"
	}
	replacer := strings.NewReplacer("\\", "_", "/", "_", ":", "_", " ", "_")
	return replacer.Replace(s)
}

func instanceInfoPath(appID string) (string, error) {
	dir, err := instanceDir(appID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "instance.json"), nil
}

func writeInstanceInfo(appID string, info instanceInfo) error {
	p, err := instanceInfoPath(appID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

func readInstanceInfo(appID string) (instanceInfo, error) {
	p, err := instanceInfoPath(appID)
	if err != nil {
		return instanceInfo{}, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return instanceInfo{}, err
	}
	var info instanceInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return instanceInfo{}, err
	}
	return info, nil
}

// startInstanceIPC listens on loopback for intents forwarded by later
// launches and records the port for them to find.
func startInstanceIPC(appID string) (net.Listener, func(), error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, nil, err
	}
	_, portStr, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		_ = ln.Close()
		return nil, nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		_ = ln.Close()
		return nil, nil, err
	}
	if err := writeInstanceInfo(appID, instanceInfo{Port: port}); err != nil {
		_ = ln.Close()
		return nil, nil, err
	}
	cleanup := func() {
		_ = ln.Close()
	}
	return ln, cleanup, nil
}

// notifyExistingInstance forwards in to the primary instance. The primary
// may still be starting, so it retries for a short while.
func notifyExistingInstance(appID string, in fileintent.Intent) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	var lastErr error
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		info, err := readInstanceInfo(appID)
		if err != nil {
			lastErr = err
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if info.Port <= 0 {
			lastErr = errors.New("invalid ipc port")
			time.Sleep(100 * time.Millisecond)
			continue
		}

		conn, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", info.Port), 300*time.Millisecond)
		if err != nil {
			lastErr = err
			time.Sleep(100 * time.Millisecond)
			continue
		}
		_, err = conn.Write(payload)
		_ = conn.Close()
		return err
	}
	if lastErr == nil {
		lastErr = errors.New("notify timeout")
	}
	return lastErr
}

// readForwardedIntent decodes what a secondary instance sent. An empty
// payload means "just bring the window forward" and yields a main intent.
func readForwardedIntent(r io.Reader) (fileintent.Intent, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxForwardedIntent))
	if err != nil {
		return fileintent.Intent{}, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return fileintent.NewIntent(fileintent.ActionMain, ""), nil
	}
	var in fileintent.Intent
	if err := json.Unmarshal(data, &in); err != nil {
		return fileintent.Intent{}, fmt.Errorf("decode forwarded intent: %w", err)
	}
	return in, nil
}
