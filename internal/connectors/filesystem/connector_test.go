package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/normalisers"
)

// writeFiles creates files under root, creating parent directories.
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func newTestConnector(t *testing.T, files map[string]string) (*Connector, string) {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, files)
	return New(root, normalisers.Defaults()), root
}

func TestNew(t *testing.T) {
	c := New("/tmp/books/", normalisers.Defaults())

	require.NotNil(t, c)
	assert.Equal(t, filepath.Clean("/tmp/books"), c.Root())
	assert.Equal(t, DefaultMaxFileSize, c.maxSize)
}

func TestConnector_WithMaxFileSize(t *testing.T) {
	c := New("/tmp", normalisers.Defaults())

	c.WithMaxFileSize(0)
	assert.Equal(t, DefaultMaxFileSize, c.maxSize)

	c.WithMaxFileSize(10)
	assert.Equal(t, int64(10), c.maxSize)
}

func TestConnector_Validate(t *testing.T) {
	t.Run("existing directory", func(t *testing.T) {
		c, _ := newTestConnector(t, nil)
		assert.NoError(t, c.Validate(context.Background()))
	})

	t.Run("missing directory", func(t *testing.T) {
		c := New(filepath.Join(t.TempDir(), "missing"), normalisers.Defaults())
		assert.ErrorIs(t, c.Validate(context.Background()), os.ErrNotExist)
	})

	t.Run("root is a file", func(t *testing.T) {
		_, root := newTestConnector(t, map[string]string{"book.txt": "text"})
		c := New(filepath.Join(root, "book.txt"), normalisers.Defaults())
		assert.ErrorIs(t, c.Validate(context.Background()), domain.ErrInvalidInput)
	})

	t.Run("cancelled context", func(t *testing.T) {
		c, _ := newTestConnector(t, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, c.Validate(ctx), context.Canceled)
	})
}

func TestConnector_FetchText(t *testing.T) {
	c, root := newTestConnector(t, map[string]string{
		"atomic-habits.md":    "# Atomic Habits\n\nSmall changes add up.",
		"notes/deep_work.txt": "Focus is a skill.",
		"data.bin":            "\x00\x01",
	})
	ctx := context.Background()

	t.Run("markdown file", func(t *testing.T) {
		text, err := c.FetchText(ctx, "atomic-habits.md")
		require.NoError(t, err)
		assert.Contains(t, text, "Small changes add up.")
		assert.NotContains(t, text, "#")
	})

	t.Run("nested plain text", func(t *testing.T) {
		text, err := c.FetchText(ctx, "notes/deep_work.txt")
		require.NoError(t, err)
		assert.Equal(t, "Focus is a skill.", strings.TrimSpace(text))
	})

	t.Run("file URI inside root", func(t *testing.T) {
		text, err := c.FetchText(ctx, FileURI(filepath.Join(root, "notes", "deep_work.txt")))
		require.NoError(t, err)
		assert.Contains(t, text, "Focus")
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := c.FetchText(ctx, "data.bin")
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := c.FetchText(ctx, "missing.txt")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := c.FetchText(ctx, "notes")
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := c.FetchText(ctx, "  ")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("path escaping root", func(t *testing.T) {
		_, err := c.FetchText(ctx, "../outside.txt")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = c.FetchText(ctx, "/etc/passwd")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestConnector_Fetch_SizeLimit(t *testing.T) {
	c, _ := newTestConnector(t, map[string]string{"big.txt": strings.Repeat("a", 20)})
	c.WithMaxFileSize(10)

	_, err := c.Fetch(context.Background(), "big.txt")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConnector_Fetch_File(t *testing.T) {
	c, _ := newTestConnector(t, map[string]string{"book.html": "<p>Hi</p>"})

	file, err := c.Fetch(context.Background(), "book.html")

	require.NoError(t, err)
	assert.Equal(t, "book.html", file.ID)
	assert.Equal(t, "book.html", file.Name)
	assert.Equal(t, "text/html", file.MIMEType)
	assert.Equal(t, []byte("<p>Hi</p>"), file.Content)
}

func TestConnector_Lookup(t *testing.T) {
	c, _ := newTestConnector(t, map[string]string{"the_power-of_now.txt": "x"})
	ctx := context.Background()

	meta, err := c.Lookup(ctx, "the_power-of_now.txt")
	require.NoError(t, err)
	assert.Equal(t, "the power of now", meta.Title)
	assert.Empty(t, meta.Author)

	_, err = c.Lookup(ctx, "missing.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConnector_Discover(t *testing.T) {
	c, root := newTestConnector(t, map[string]string{
		"b-book.md":          "b",
		"a_book.txt":         "a",
		"shelf/c book.docx":  "c",
		".hidden.txt":        "h",
		".trash/old.txt":     "o",
		"cover.zzzzunknown":  "x",
		"shelf/.draft/x.txt": "d",
	})

	entries, err := c.Discover(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 3)

	ids := []string{entries[0].ID, entries[1].ID, entries[2].ID}
	assert.Equal(t, []string{"a_book.txt", "b-book.md", "shelf/c book.docx"}, ids)

	first := entries[0]
	assert.Equal(t, "a book", first.Title)
	assert.Equal(t, "text/plain", first.MIMEType)
	assert.Equal(t, domain.CatalogNew, first.Status)
	assert.Equal(t, FileURI(filepath.Join(root, "a_book.txt")), first.URL)
	assert.False(t, first.UpdatedAt.IsZero())
}

func TestConnector_Discover_Errors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		c := New(filepath.Join(t.TempDir(), "missing"), normalisers.Defaults())
		_, err := c.Discover(context.Background())
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		c, _ := newTestConnector(t, map[string]string{"a.txt": "a"})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.Discover(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("empty folder", func(t *testing.T) {
		c, _ := newTestConnector(t, nil)
		entries, err := c.Discover(context.Background())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		filename     string
		expectedMIME string
	}{
		{"book", "text/plain"},
		{"book.txt", "text/plain"},
		{"book.md", "text/markdown"},
		{"book.markdown", "text/markdown"},
		{"book.html", "text/html"},
		{"book.htm", "text/html"},
		{"book.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"BOOK.MD", "text/markdown"},
		{"File.Html", "text/html"},
		{"file.zzzzunknown", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expectedMIME, DetectMIMEType(tt.filename))
		})
	}

	t.Run("strips parameters", func(t *testing.T) {
		for _, name := range []string{"file.css", "file.js", "file.json"} {
			assert.NotContains(t, DetectMIMEType(name), ";")
		}
	})
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{".hidden", true},
		{"path/to/.hidden", true},
		{"dir/.git/config", true},
		{".config/.cache/data", true},
		{"file.txt", false},
		{"path/to/file.txt", false},
		{"file.hidden", false},
		{"directory.name/file", false},
		{".", false},
		{"..", false},
		{"path/./file", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.path))
		})
	}
}
