package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

const (
	sourceExt = ".md"
	homeDir   = "index"
)

// ErrSourceLayout marks files that do not follow the <page>/<locale>.md layout.
var ErrSourceLayout = errors.New("markdown: invalid source layout")

// LoaderConfig configures discovery.
type LoaderConfig struct {
	// Root is the directory inside the filesystem holding page sources. Defaults to ".".
	Root string
	// Parser renders bodies into Document.BodyHTML when set.
	Parser interfaces.MarkdownParser
}

// Loader reads page sources from an fs.FS.
type Loader struct {
	fs     fs.FS
	root   string
	parser interfaces.MarkdownParser
}

// NewLoader constructs a Loader over filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	root := strings.Trim(path.Clean("/"+strings.TrimSpace(cfg.Root)), "/")
	if root == "" {
		root = "."
	}
	return &Loader{fs: filesystem, root: root, parser: cfg.Parser}
}

// LoadFile parses a single source given its path relative to the loader root.
func (l *Loader) LoadFile(ctx context.Context, rel string) (*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, locale, err := splitSourcePath(rel)
	if err != nil {
		return nil, err
	}
	full := path.Join(l.root, rel)

	data, err := fs.ReadFile(l.fs, full)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", full, err)
	}
	info, err := fs.Stat(l.fs, full)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", full, err)
	}

	doc, err := BuildDocument(rel, page, locale, data, info.ModTime())
	if err != nil {
		return nil, err
	}
	if l.parser != nil {
		html, err := l.parser.Parse(doc.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rel, err)
		}
		doc.BodyHTML = html
	}
	return doc, nil
}

// LoadDirectory walks the loader root and returns every source ordered by page then locale.
func (l *Loader) LoadDirectory(ctx context.Context) ([]*interfaces.Document, error) {
	var docs []*interfaces.Document

	err := fs.WalkDir(l.fs, l.root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || path.Ext(current) != sourceExt {
			return nil
		}

		rel := current
		if l.root != "." {
			rel = strings.TrimPrefix(current, l.root+"/")
		}
		doc, err := l.LoadFile(ctx, rel)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Page == docs[j].Page {
			return docs[i].Locale < docs[j].Locale
		}
		return docs[i].Page < docs[j].Page
	})
	return docs, nil
}

// splitSourcePath maps "docs/examples/zh.md" to ("docs/examples", "zh") and
// "index/en.md" to ("", "en").
func splitSourcePath(rel string) (page, locale string, err error) {
	rel = strings.Trim(path.Clean("/"+rel), "/")
	dir, file := path.Split(rel)
	dir = strings.Trim(dir, "/")
	if dir == "" || path.Ext(file) != sourceExt {
		return "", "", fmt.Errorf("%w: %q", ErrSourceLayout, rel)
	}
	locale = strings.ToLower(strings.TrimSuffix(file, sourceExt))
	if locale == "" {
		return "", "", fmt.Errorf("%w: %q", ErrSourceLayout, rel)
	}
	if dir == homeDir {
		dir = ""
	}
	return dir, locale, nil
}
