// Package filesystem reads book sources from a local folder.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
	"github.com/MaxSetka1/max-autopost-bot/internal/logger"
)

// DefaultMaxFileSize bounds a single source file.
const DefaultMaxFileSize int64 = 50 << 20

// Connector serves source files from a directory tree. Source ids are
// slash-separated paths relative to the root.
type Connector struct {
	root        string
	normalisers driven.NormaliserRegistry
	maxSize     int64
}

var (
	_ driven.SourceFetcher    = (*Connector)(nil)
	_ driven.SourceDiscoverer = (*Connector)(nil)
	_ driven.SourceMetadata   = (*Connector)(nil)
)

// New creates a connector rooted at root.
func New(root string, normalisers driven.NormaliserRegistry) *Connector {
	return &Connector{
		root:        filepath.Clean(root),
		normalisers: normalisers,
		maxSize:     DefaultMaxFileSize,
	}
}

// WithMaxFileSize overrides the per-file size limit.
func (c *Connector) WithMaxFileSize(n int64) *Connector {
	if n > 0 {
		c.maxSize = n
	}
	return c
}

// Root returns the directory being served.
func (c *Connector) Root() string {
	return c.root
}

// Validate checks that the root exists and is a directory.
func (c *Connector) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(c.root)
	if err != nil {
		return fmt.Errorf("books folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("books folder %s is not a directory: %w", c.root, domain.ErrInvalidInput)
	}
	return nil
}

// FetchText reads a file and returns its normalised text.
func (c *Connector) FetchText(ctx context.Context, sourceID string) (string, error) {
	file, err := c.Fetch(ctx, sourceID)
	if err != nil {
		return "", err
	}
	res, err := c.normalisers.Normalise(ctx, file)
	if err != nil {
		return "", fmt.Errorf("normalising %s: %w", sourceID, err)
	}
	logger.Debug("filesystem: read %s (%s, %d bytes, %d chars)", sourceID, res.Format, len(file.Content), len(res.Text))
	return res.Text, nil
}

// Fetch reads the raw file.
func (c *Connector) Fetch(ctx context.Context, sourceID string) (*domain.SourceFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := c.resolve(sourceID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", sourceID, domain.ErrNotFound)
		}
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", sourceID, domain.ErrUnsupportedType)
	}

	// Read one byte past the limit to detect oversized files.
	data, err := io.ReadAll(io.LimitReader(f, c.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", sourceID, err)
	}
	if int64(len(data)) > c.maxSize {
		return nil, fmt.Errorf("file %s exceeds %d bytes: %w", sourceID, c.maxSize, domain.ErrInvalidInput)
	}

	return &domain.SourceFile{
		ID:       sourceID,
		Name:     info.Name(),
		MIMEType: DetectMIMEType(path),
		Content:  data,
	}, nil
}

// Lookup returns a title derived from the file name.
func (c *Connector) Lookup(ctx context.Context, sourceID string) (domain.SourceMeta, error) {
	if err := ctx.Err(); err != nil {
		return domain.SourceMeta{}, err
	}
	path, err := c.resolve(sourceID)
	if err != nil {
		return domain.SourceMeta{}, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.SourceMeta{}, fmt.Errorf("%s: %w", sourceID, domain.ErrNotFound)
		}
		return domain.SourceMeta{}, err
	}
	return domain.SourceMeta{Title: domain.TitleFromName(path)}, nil
}

// Discover walks the root and returns every visible file a normaliser
// can read, sorted by id.
func (c *Connector) Discover(ctx context.Context) ([]domain.CatalogEntry, error) {
	if err := c.Validate(ctx); err != nil {
		return nil, err
	}

	supported := make(map[string]bool)
	for _, mt := range c.normalisers.SupportedMIMETypes() {
		supported[mt] = true
	}

	var entries []domain.CatalogEntry
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Debug("filesystem: skipping %s: %v", path, err)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, relErr := filepath.Rel(c.root, path)
		if relErr != nil || rel == "." {
			return nil //nolint:nilerr // root itself or unrelatable path
		}
		if isHidden(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		mimeType := DetectMIMEType(path)
		if !supported[mimeType] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // file vanished during the walk
		}
		entries = append(entries, domain.CatalogEntry{
			ID:        filepath.ToSlash(rel),
			Title:     domain.TitleFromName(rel),
			MIMEType:  mimeType,
			URL:       FileURI(path),
			Status:    domain.CatalogNew,
			UpdatedAt: info.ModTime().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", c.root, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// resolve maps a source id to a path inside the root. Ids that escape
// the root are rejected.
func (c *Connector) resolve(sourceID string) (string, error) {
	id := strings.TrimSpace(sourceID)
	if strings.HasPrefix(id, "file://") {
		id = PathFromURI(id)
	}
	if id == "" {
		return "", domain.ErrInvalidInput
	}

	var path string
	if filepath.IsAbs(id) {
		path = filepath.Clean(id)
	} else {
		path = filepath.Join(c.root, filepath.FromSlash(id))
	}
	rel, err := filepath.Rel(c.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the books folder: %w", sourceID, domain.ErrInvalidInput)
	}
	return path, nil
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
