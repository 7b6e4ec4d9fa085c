package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

const (
	opEnsureDir = "generator.ensure_dir"
	opWrite     = "generator.write"
	opRead      = "generator.read"
	opRemove    = "generator.remove"
)

// NewFilesystemStorage returns a StorageProvider that writes artifacts to disk.
// The base argument should match the generator OutputDir so duplicated
// prefixes are trimmed. Absolute and relative bases compare without their
// leading slash, the way the generator joins output paths.
func NewFilesystemStorage(root, base string) interfaces.StorageProvider {
	base = trimLeadingSlash(filepath.ToSlash(filepath.Clean(base)))
	if base == "." {
		base = ""
	}
	return &filesystemStorage{root: root, base: base}
}

type filesystemStorage struct {
	root string
	base string
}

func (s *filesystemStorage) Query(_ context.Context, query string, args ...any) (interfaces.Rows, error) {
	if query != opRead || len(args) == 0 {
		return nil, nil
	}
	target := s.normalizePath(args[0])
	data, err := os.ReadFile(s.abs(target))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &byteRows{data: data}, nil
}

func (s *filesystemStorage) Exec(ctx context.Context, query string, args ...any) (interfaces.Result, error) {
	if err := ctx.Err(); err != nil {
		return emptyResult{}, err
	}
	switch query {
	case opEnsureDir:
		if len(args) == 0 {
			return emptyResult{}, fmt.Errorf("ensure_dir requires path")
		}
		return emptyResult{}, os.MkdirAll(s.abs(s.normalizePath(args[0])), 0o755)
	case opWrite:
		if len(args) < 2 {
			return emptyResult{}, fmt.Errorf("write requires path and reader")
		}
		reader, ok := args[1].(io.Reader)
		if !ok || reader == nil {
			return emptyResult{}, fmt.Errorf("write expects io.Reader content")
		}
		full := s.abs(s.normalizePath(args[0]))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return emptyResult{}, err
		}
		file, err := os.Create(full)
		if err != nil {
			return emptyResult{}, err
		}
		defer file.Close()
		n, err := io.Copy(file, reader)
		if err != nil {
			return emptyResult{}, err
		}
		return emptyResult{affected: n}, nil
	case opRemove:
		if len(args) == 0 {
			return emptyResult{}, fmt.Errorf("remove requires path")
		}
		err := os.RemoveAll(s.abs(s.normalizePath(args[0])))
		if errors.Is(err, os.ErrNotExist) {
			return emptyResult{}, nil
		}
		return emptyResult{}, err
	default:
		return emptyResult{}, nil
	}
}

func (s *filesystemStorage) Transaction(_ context.Context, fn func(tx interfaces.Transaction) error) error {
	if fn == nil {
		return nil
	}
	return fn(&passthroughTx{provider: s})
}

func (s *filesystemStorage) abs(rel string) string {
	if rel == "" {
		return s.root
	}
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

func (s *filesystemStorage) normalizePath(arg any) string {
	path, _ := arg.(string)
	path = trimLeadingSlash(filepath.ToSlash(filepath.Clean(path)))
	if path == "." || path == "" {
		return ""
	}
	if s.base != "" && (path == s.base || strings.HasPrefix(path, s.base+"/")) {
		path = strings.TrimPrefix(path, s.base)
		path = strings.TrimPrefix(path, "/")
	}
	return path
}

func trimLeadingSlash(p string) string {
	return strings.TrimLeft(p, "/")
}

type passthroughTx struct {
	provider interfaces.StorageProvider
}

func (tx *passthroughTx) Query(ctx context.Context, query string, args ...any) (interfaces.Rows, error) {
	return tx.provider.Query(ctx, query, args...)
}

func (tx *passthroughTx) Exec(ctx context.Context, query string, args ...any) (interfaces.Result, error) {
	return tx.provider.Exec(ctx, query, args...)
}

func (tx *passthroughTx) Transaction(context.Context, func(interfaces.Transaction) error) error {
	return errors.New("nested transactions not supported")
}

func (tx *passthroughTx) Commit() error {
	return nil
}

func (tx *passthroughTx) Rollback() error {
	return nil
}

type emptyResult struct {
	affected int64
}

func (r emptyResult) RowsAffected() (int64, error) { return r.affected, nil }
func (emptyResult) LastInsertId() (int64, error)   { return 0, nil }

type byteRows struct {
	data []byte
	read bool
}

func (r *byteRows) Next() bool {
	if r.read {
		return false
	}
	r.read = true
	return true
}

func (r *byteRows) Scan(dest ...any) error {
	if len(dest) == 0 {
		return fmt.Errorf("scan requires destination")
	}
	bytesDest, ok := dest[0].(*[]byte)
	if !ok {
		return fmt.Errorf("unsupported scan destination %T", dest[0])
	}
	*bytesDest = append((*bytesDest)[:0], r.data...)
	return nil
}

func (r *byteRows) Close() error {
	return nil
}
