package fileintent

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Method names on the file intent channel.
const (
	MethodGetSharedFilePath = "getSharedFilePath"
	MethodFileReceived      = "fileReceived"
)

// ErrNotImplemented is returned for calls no handler knows.
var ErrNotImplemented = errors.New("method not implemented")

// MethodCall is one named call with its arguments.
type MethodCall struct {
	Method    string `json:"method"`
	Arguments any    `json:"arguments"`
}

// Messenger carries pushes from native code to the application core.
type Messenger interface {
	Send(channel string, call MethodCall)
}

// MessengerFunc adapts a function to Messenger.
type MessengerFunc func(channel string, call MethodCall)

func (f MessengerFunc) Send(channel string, call MethodCall) { f(channel, call) }

// MethodCallHandler serves calls made by the application core.
type MethodCallHandler func(ctx context.Context, call MethodCall) (any, error)

// MethodChannel is a named, bidirectional bridge between native code and the
// application core.
type MethodChannel struct {
	name string

	mu        sync.RWMutex
	messenger Messenger
	handler   MethodCallHandler
}

func NewMethodChannel(name string, m Messenger) *MethodChannel {
	return &MethodChannel{name: name, messenger: m}
}

func (c *MethodChannel) Name() string { return c.name }

// SetMessenger attaches (or with nil, detaches) the push transport.
func (c *MethodChannel) SetMessenger(m Messenger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messenger = m
}

func (c *MethodChannel) SetMethodCallHandler(h MethodCallHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = h
}

// Invoke dispatches a call from the core to the registered handler.
func (c *MethodChannel) Invoke(ctx context.Context, method string, args any) (any, error) {
	c.mu.RLock()
	h := c.handler
	c.mu.RUnlock()
	if h == nil {
		return nil, fmt.Errorf("%s/%s: %w", c.name, method, ErrNotImplemented)
	}
	return h(ctx, MethodCall{Method: method, Arguments: args})
}

// InvokeMethod pushes a call to the core. It reports false when no messenger
// is attached and the push was dropped.
func (c *MethodChannel) InvokeMethod(method string, args any) bool {
	c.mu.RLock()
	m := c.messenger
	c.mu.RUnlock()
	if m == nil {
		return false
	}
	m.Send(c.name, MethodCall{Method: method, Arguments: args})
	return true
}
