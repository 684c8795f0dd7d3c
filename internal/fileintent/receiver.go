package fileintent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"FileBridge/internal/metrics"
)

// DefaultChannelName is the channel the application core listens on.
const DefaultChannelName = "FileBridge/file_intent"

// Receiver handles intents at the host's lifecycle entry points and owns the
// pending shared path.
type Receiver struct {
	resolver *Resolver
	channel  *MethodChannel
	pending  pendingPath
	log      *zap.Logger
}

// NewReceiver wires a receiver to a new channel called channelName. The
// channel has no messenger until the host attaches one. A nil resolver
// resolves file: URIs only.
func NewReceiver(channelName string, resolver *Resolver, log *zap.Logger) *Receiver {
	if log == nil {
		log = zap.NewNop()
	}
	if resolver == nil {
		resolver = NewResolver(nil, log.Named("resolver"))
	}
	if channelName == "" {
		channelName = DefaultChannelName
	}
	r := &Receiver{
		resolver: resolver,
		channel:  NewMethodChannel(channelName, nil),
		log:      log,
	}
	r.channel.SetMethodCallHandler(r.handleMethodCall)
	return r
}

func (r *Receiver) Channel() *MethodChannel { return r.channel }

// OnCreate handles the intent that started the application.
func (r *Receiver) OnCreate(ctx context.Context, in Intent) {
	r.log.Debug("onCreate", zap.String("intent", in.ID))
	metrics.RecordIntent(in.Action, "create")
	r.HandleIntent(ctx, in)
}

// OnNewIntent handles an intent delivered while the application is running.
func (r *Receiver) OnNewIntent(ctx context.Context, in Intent) {
	r.log.Debug("onNewIntent", zap.String("intent", in.ID), zap.String("action", in.Action))
	metrics.RecordIntent(in.Action, "new")
	r.HandleIntent(ctx, in)
}

// HandleIntent resolves the intent's URI and, when it names a .zip or .json
// file, makes it the pending shared path and pushes it to the core.
func (r *Receiver) HandleIntent(ctx context.Context, in Intent) (string, bool) {
	log := r.log.With(zap.String("intent", in.ID))
	log.Debug("handleIntent",
		zap.String("action", in.Action),
		zap.String("data", in.Data),
		zap.Any("extras", in.Extras),
	)

	uri, handled := in.candidateURI()
	if !handled {
		log.Debug("ignoring action", zap.String("action", in.Action))
		return "", false
	}
	if uri == "" {
		return "", false
	}

	path, ok := r.resolver.Resolve(ctx, uri)
	log.Debug("extracted path", zap.String("uri", uri), zap.String("path", path))
	if !ok || !Accepts(path) {
		if ok {
			metrics.RecordPath(false)
		}
		return "", false
	}
	metrics.RecordPath(true)

	r.pending.store(path)
	log.Info("shared file path set", zap.String("path", path))
	if r.channel.InvokeMethod(MethodFileReceived, path) {
		metrics.RecordDelivery("push")
	} else {
		log.Debug("no messenger attached, path kept for pull")
	}
	return path, true
}

// TakeSharedFilePath returns the pending path, or nil, and clears it.
func (r *Receiver) TakeSharedFilePath() *string {
	path, ok := r.pending.take()
	r.log.Debug("getSharedFilePath called", zap.String("path", path), zap.Bool("pending", ok))
	if !ok {
		return nil
	}
	metrics.RecordDelivery("pull")
	return &path
}

// PendingSharedFilePath reports the pending path without clearing it.
func (r *Receiver) PendingSharedFilePath() (string, bool) {
	return r.pending.peek()
}

func (r *Receiver) handleMethodCall(_ context.Context, call MethodCall) (any, error) {
	switch call.Method {
	case MethodGetSharedFilePath:
		if p := r.TakeSharedFilePath(); p != nil {
			return *p, nil
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("%s/%s: %w", r.channel.Name(), call.Method, ErrNotImplemented)
	}
}
