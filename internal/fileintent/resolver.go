package fileintent

import (
	"context"
	"net/url"
	"runtime"

	"go.uber.org/zap"

	"FileBridge/internal/metrics"
)

// Resolver maps file: and content: URIs to local file paths.
type Resolver struct {
	contents ContentResolver
	log      *zap.Logger
	goos     string
}

// NewResolver returns a resolver that answers content: URIs through contents.
// contents may be nil, in which case content: URIs never resolve.
func NewResolver(contents ContentResolver, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{contents: contents, log: log, goos: runtime.GOOS}
}

// Resolve returns the file path behind rawURI. Every failure is logged and
// reported as ok=false; nothing is returned to the caller as an error.
func (r *Resolver) Resolve(ctx context.Context, rawURI string) (path string, ok bool) {
	u, err := url.Parse(rawURI)
	if err != nil {
		r.fail("parse", zap.String("uri", rawURI), zap.Error(err))
		return "", false
	}

	switch u.Scheme {
	case "file":
		p := fileURIPath(u, r.goos)
		if p == "" {
			r.fail("path", zap.String("uri", rawURI))
			return "", false
		}
		r.log.Debug("file scheme", zap.String("uri", rawURI), zap.String("path", p))
		return p, true
	case "content":
		return r.queryData(ctx, u)
	default:
		r.fail("scheme", zap.String("uri", rawURI), zap.String("scheme", u.Scheme))
		return "", false
	}
}

func (r *Resolver) queryData(ctx context.Context, u *url.URL) (string, bool) {
	uri := u.String()
	if r.contents == nil {
		r.fail("query", zap.String("uri", uri), zap.String("error", "no content resolver"))
		return "", false
	}

	cur, err := r.contents.Query(ctx, u)
	if err != nil {
		r.fail("query", zap.String("uri", uri), zap.Error(err))
		return "", false
	}
	if cur == nil {
		r.fail("no_rows", zap.String("uri", uri))
		return "", false
	}
	defer func() { _ = cur.Close() }()

	if !cur.MoveToFirst() {
		r.fail("no_rows", zap.String("uri", uri))
		return "", false
	}
	col := cur.ColumnIndex(ColumnData)
	if col == -1 {
		r.fail("no_column", zap.String("uri", uri), zap.String("column", ColumnData))
		return "", false
	}
	p, null, err := cur.String(col)
	if err != nil {
		r.fail("read", zap.String("uri", uri), zap.Error(err))
		return "", false
	}
	if null || p == "" {
		r.fail("read", zap.String("uri", uri), zap.String("error", "empty "+ColumnData))
		return "", false
	}
	r.log.Debug("content scheme", zap.String("uri", uri), zap.String("path", p))
	return p, true
}

func (r *Resolver) fail(reason string, fields ...zap.Field) {
	metrics.RecordResolveFailure(reason)
	r.log.Debug("uri not resolved", append([]zap.Field{zap.String("reason", reason)}, fields...)...)
}

// fileURIPath returns the decoded path of a file: URI. On Windows the slash
// in front of a drive letter is dropped, so file:///C:/a.json is C:/a.json.
// An opaque URI such as file:a.json has no path.
func fileURIPath(u *url.URL, goos string) string {
	p := u.Path
	if goos == "windows" && len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return p
}
