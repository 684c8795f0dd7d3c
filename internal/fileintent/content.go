package fileintent

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// ColumnData is the legacy media column holding a provider row's file path.
const ColumnData = "_data"

// Cursor is a forward-only view over the rows returned by a content query.
type Cursor interface {
	MoveToFirst() bool
	// ColumnIndex returns -1 when the column does not exist.
	ColumnIndex(name string) int
	// String returns the value at col of the current row. null reports an
	// SQL-style NULL.
	String(col int) (value string, null bool, err error)
	Close() error
}

// ContentResolver answers queries for content: URIs. A nil cursor with a nil
// error means the provider returned nothing.
type ContentResolver interface {
	Query(ctx context.Context, uri *url.URL) (Cursor, error)
}

// ContentProvider serves one authority.
type ContentProvider interface {
	Query(ctx context.Context, uri *url.URL) (Cursor, error)
}

var ErrUnknownAuthority = errors.New("no provider for authority")

// ProviderRegistry is a ContentResolver that dispatches by URI authority.
type ProviderRegistry struct {
	mu        sync.RWMutex
	providers map[string]ContentProvider
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{providers: map[string]ContentProvider{}}
}

// Register installs p for authority, replacing any previous provider.
func (r *ProviderRegistry) Register(authority string, p ContentProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[authority] = p
}

func (r *ProviderRegistry) Query(ctx context.Context, uri *url.URL) (Cursor, error) {
	r.mu.RLock()
	p, ok := r.providers[uri.Host]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAuthority, uri.Host)
	}
	return p.Query(ctx, uri)
}

// RowCursor is an in-memory Cursor. A nil value in a row is NULL.
type RowCursor struct {
	Columns []string
	Rows    [][]*string
	pos     int
	closed  bool
}

func (c *RowCursor) MoveToFirst() bool {
	if len(c.Rows) == 0 {
		return false
	}
	c.pos = 0
	return true
}

func (c *RowCursor) ColumnIndex(name string) int {
	for i, col := range c.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

func (c *RowCursor) String(col int) (string, bool, error) {
	if c.closed {
		return "", false, errors.New("cursor closed")
	}
	if c.pos < 0 || c.pos >= len(c.Rows) {
		return "", false, errors.New("cursor not positioned on a row")
	}
	row := c.Rows[c.pos]
	if col < 0 || col >= len(row) {
		return "", false, fmt.Errorf("column %d out of range", col)
	}
	if row[col] == nil {
		return "", true, nil
	}
	return *row[col], false, nil
}

func (c *RowCursor) Close() error {
	c.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (c *RowCursor) Closed() bool { return c.closed }

// FileProvider exposes files under Root as content://<authority>/<relative path>.
type FileProvider struct {
	Root string
}

func (p FileProvider) Query(_ context.Context, uri *url.URL) (Cursor, error) {
	full, ok := safeJoin(p.Root, strings.TrimPrefix(uri.Path, "/"))
	if !ok {
		return nil, fmt.Errorf("path escapes provider root: %q", uri.Path)
	}
	cols := []string{"_id", "_display_name", "_size", ColumnData}
	st, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &RowCursor{Columns: cols}, nil
		}
		return nil, err
	}
	if st.IsDir() {
		return &RowCursor{Columns: cols}, nil
	}
	id := "0"
	name := st.Name()
	size := strconv.FormatInt(st.Size(), 10)
	return &RowCursor{
		Columns: cols,
		Rows:    [][]*string{{&id, &name, &size, &full}},
	}, nil
}

func safeJoin(root string, subPath string) (string, bool) {
	root = filepath.Clean(root)
	if runtime.GOOS == "windows" {
		// filepath.Clean("D:") keeps no separator; normalise volume roots to "D:\".
		vol := filepath.VolumeName(root)
		if vol != "" && (strings.EqualFold(root, vol) || strings.EqualFold(root, vol+".")) {
			root = vol + string(os.PathSeparator)
		}
	}
	sub := filepath.FromSlash(strings.TrimSpace(subPath))
	full := filepath.Clean(filepath.Join(root, sub))

	prefix := root
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix = prefix + string(os.PathSeparator)
	}

	if runtime.GOOS == "windows" {
		if strings.EqualFold(full, root) || strings.HasPrefix(strings.ToLower(full), strings.ToLower(prefix)) {
			return full, true
		}
		return "", false
	}
	if full == root || strings.HasPrefix(full, prefix) {
		return full, true
	}
	return "", false
}
