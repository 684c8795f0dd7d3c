// Package fileintent turns "open file" and "share file" intents delivered by the
// host OS into a single pending file path that the application core can pull,
// and pushes every newly detected path over a named method channel.
package fileintent

import (
	"strings"

	"github.com/google/uuid"
)

// Intent actions understood by the receiver. The values match the Android
// constants so intents read through JNI can be used as-is.
const (
	ActionView = "android.intent.action.VIEW"
	ActionSend = "android.intent.action.SEND"
	ActionMain = "android.intent.action.MAIN"
)

// ExtraStream is the extra carrying the shared URI of a send intent.
const ExtraStream = "android.intent.extra.STREAM"

// Intent is an OS-delivered request: an action plus its data payload.
type Intent struct {
	ID     string            `json:"id"`
	Action string            `json:"action"`
	Data   string            `json:"data,omitempty"`
	Extras map[string]string `json:"extras,omitempty"`
}

// NewIntent returns an intent with a fresh ID.
func NewIntent(action, data string) Intent {
	return Intent{ID: uuid.NewString(), Action: action, Data: data}
}

// NewSendIntent returns a send intent whose stream extra is streamURI.
func NewSendIntent(streamURI string) Intent {
	in := NewIntent(ActionSend, "")
	in.Extras = map[string]string{ExtraStream: streamURI}
	return in
}

// Extra returns the named extra, or "" when absent.
func (in Intent) Extra(key string) string {
	if in.Extras == nil {
		return ""
	}
	return in.Extras[key]
}

// candidateURI picks the URI a given action carries. ok is false for actions
// the receiver does not handle.
func (in Intent) candidateURI() (uri string, ok bool) {
	switch in.Action {
	case ActionView, ActionMain:
		return strings.TrimSpace(in.Data), true
	case ActionSend:
		return strings.TrimSpace(in.Extra(ExtraStream)), true
	default:
		return "", false
	}
}

var acceptedSuffixes = []string{".zip", ".json"}

// Accepts reports whether path may become the pending shared path.
// The suffix check is case-sensitive.
func Accepts(path string) bool {
	if path == "" {
		return false
	}
	for _, s := range acceptedSuffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}
