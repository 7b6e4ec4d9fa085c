package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// MemoryStorage keeps artifacts in memory. It backs dry runs and tests.
type MemoryStorage struct {
	mu    sync.RWMutex
	files map[string][]byte
	meta  map[string]map[string]string
	dirs  map[string]struct{}
	calls []string
}

// NewMemoryStorage returns an empty in-memory provider.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		files: map[string][]byte{},
		meta:  map[string]map[string]string{},
		dirs:  map[string]struct{}{},
	}
}

var _ interfaces.StorageProvider = (*MemoryStorage)(nil)

func (m *MemoryStorage) Query(_ context.Context, query string, args ...any) (interfaces.Rows, error) {
	if query != opRead || len(args) == 0 {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[cleanKey(args[0])]
	if !ok {
		return nil, nil
	}
	return &byteRows{data: append([]byte(nil), data...)}, nil
}

func (m *MemoryStorage) Exec(ctx context.Context, query string, args ...any) (interfaces.Result, error) {
	if err := ctx.Err(); err != nil {
		return emptyResult{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, query)
	switch query {
	case opEnsureDir:
		if len(args) == 0 {
			return emptyResult{}, fmt.Errorf("ensure_dir requires path")
		}
		m.dirs[cleanKey(args[0])] = struct{}{}
		return emptyResult{}, nil
	case opWrite:
		if len(args) < 2 {
			return emptyResult{}, fmt.Errorf("write requires path and reader")
		}
		reader, ok := args[1].(io.Reader)
		if !ok || reader == nil {
			return emptyResult{}, fmt.Errorf("write expects io.Reader content")
		}
		data, err := io.ReadAll(reader)
		if err != nil {
			return emptyResult{}, err
		}
		key := cleanKey(args[0])
		m.files[key] = data
		if len(args) >= 8 {
			if meta, ok := args[7].(map[string]string); ok {
				m.meta[key] = meta
			}
		}
		return emptyResult{affected: int64(len(data))}, nil
	case opRemove:
		if len(args) == 0 {
			return emptyResult{}, fmt.Errorf("remove requires path")
		}
		prefix := cleanKey(args[0])
		for key := range m.files {
			if key == prefix || strings.HasPrefix(key, prefix+"/") {
				delete(m.files, key)
				delete(m.meta, key)
			}
		}
		for key := range m.dirs {
			if key == prefix || strings.HasPrefix(key, prefix+"/") {
				delete(m.dirs, key)
			}
		}
		return emptyResult{}, nil
	default:
		return emptyResult{}, nil
	}
}

func (m *MemoryStorage) Transaction(_ context.Context, fn func(tx interfaces.Transaction) error) error {
	if fn == nil {
		return nil
	}
	return fn(&passthroughTx{provider: m})
}

// File returns the stored bytes for path.
func (m *MemoryStorage) File(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[cleanKey(path)]
	return data, ok
}

// Metadata returns the metadata recorded with the last write to path.
func (m *MemoryStorage) Metadata(path string) map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.meta[cleanKey(path)]
}

// Paths lists stored files in lexical order.
func (m *MemoryStorage) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.files))
	for key := range m.files {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Count returns how many times op was executed.
func (m *MemoryStorage) Count(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, call := range m.calls {
		if call == op {
			n++
		}
	}
	return n
}

func cleanKey(arg any) string {
	raw, _ := arg.(string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	cleaned := path.Clean(strings.TrimPrefix(raw, "/"))
	if cleaned == "." {
		return ""
	}
	return cleaned
}
