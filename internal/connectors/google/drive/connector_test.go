package drive

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/MaxSetka1/max-autopost-bot/internal/connectors/google"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/normalisers"
)

// fakeDrive serves files keyed by id. Listing returns them in two pages.
type fakeDrive struct {
	files   []*drive.File
	content map[string]string
	exports []string
}

func (f *fakeDrive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")
	idx := strings.Index(path, "/files")
	rest := strings.TrimPrefix(path[idx:], "/files")

	switch {
	case rest == "":
		page := drive.FileList{}
		if r.URL.Query().Get("pageToken") == "" && len(f.files) > 1 {
			page.Files = f.files[:1]
			page.NextPageToken = "p2"
		} else if r.URL.Query().Get("pageToken") != "" {
			page.Files = f.files[1:]
		} else {
			page.Files = f.files
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(page)

	case strings.HasSuffix(rest, "/export"):
		id := strings.TrimSuffix(strings.TrimPrefix(rest, "/"), "/export")
		f.exports = append(f.exports, r.URL.Query().Get("mimeType"))
		_, _ = w.Write([]byte(f.content[id]))

	default:
		id := strings.TrimPrefix(rest, "/")
		var meta *drive.File
		for _, file := range f.files {
			if file.Id == id {
				meta = file
			}
		}
		if meta == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"File not found"}}`))
			return
		}
		if r.URL.Query().Get("alt") == "media" {
			_, _ = w.Write([]byte(f.content[id]))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(meta)
	}
}

func newTestConnector(t *testing.T, fake *fakeDrive, cfg Config) *Connector {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := drive.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	c := New(svc, cfg, normalisers.Defaults())
	c.limiter = google.NewRateLimiterWithConfig(google.RateLimitConfig{RequestsPerSecond: 1000, BurstSize: 100})
	return c
}

func testDrive() *fakeDrive {
	return &fakeDrive{
		files: []*drive.File{
			{Id: "doc1", Name: "atomic_habits", MimeType: MimeTypeGoogleDoc, WebViewLink: "https://docs.google.com/document/d/doc1/edit"},
			{Id: "txt1", Name: "deep-work.txt", MimeType: "text/plain"},
			{Id: "dir1", Name: "archive", MimeType: MimeTypeFolder},
			{Id: "form1", Name: "survey", MimeType: "application/vnd.google-apps.form"},
		},
		content: map[string]string{
			"doc1": "Small habits compound.\n\nSystems beat goals.",
			"txt1": "Focus is a skill.",
		},
	}
}

func TestConnector_FetchTextExportsDocs(t *testing.T) {
	fake := testDrive()
	c := newTestConnector(t, fake, DefaultConfig("folder"))

	text, err := c.FetchText(context.Background(), "doc1")
	require.NoError(t, err)
	assert.Contains(t, text, "Small habits compound.")
	assert.Equal(t, []string{ExportMimeText}, fake.exports)
}

func TestConnector_FetchTextDownloadsMedia(t *testing.T) {
	fake := testDrive()
	c := newTestConnector(t, fake, DefaultConfig("folder"))

	text, err := c.FetchText(context.Background(), "txt1")
	require.NoError(t, err)
	assert.Contains(t, text, "Focus is a skill.")
	assert.Empty(t, fake.exports)
}

func TestConnector_FetchNotFound(t *testing.T) {
	c := newTestConnector(t, testDrive(), DefaultConfig("folder"))

	_, err := c.FetchText(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestConnector_FetchFolderUnsupported(t *testing.T) {
	c := newTestConnector(t, testDrive(), DefaultConfig("folder"))

	_, err := c.Fetch(context.Background(), "dir1")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestConnector_FetchTooLarge(t *testing.T) {
	cfg := DefaultConfig("folder")
	cfg.MaxDownloadSize = 4
	c := newTestConnector(t, testDrive(), cfg)

	_, err := c.Fetch(context.Background(), "txt1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConnector_Lookup(t *testing.T) {
	c := newTestConnector(t, testDrive(), DefaultConfig("folder"))

	meta, err := c.Lookup(context.Background(), "txt1")
	require.NoError(t, err)
	assert.Equal(t, "deep work", meta.Title)
}

func TestConnector_DiscoverPagesAndFilters(t *testing.T) {
	c := newTestConnector(t, testDrive(), DefaultConfig("folder"))

	entries, err := c.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "doc1", entries[0].ID)
	assert.Equal(t, "atomic habits", entries[0].Title)
	assert.Equal(t, "https://docs.google.com/document/d/doc1/edit", entries[0].URL)
	assert.Equal(t, domain.CatalogNew, entries[0].Status)

	assert.Equal(t, "txt1", entries[1].ID)
	assert.Equal(t, WebURL("txt1"), entries[1].URL)
}

func TestConnector_DiscoverRequiresFolder(t *testing.T) {
	c := newTestConnector(t, testDrive(), DefaultConfig(""))

	_, err := c.Discover(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWebURL(t *testing.T) {
	assert.Equal(t, "https://drive.google.com/file/d/abc/view", WebURL("abc"))
	assert.Empty(t, WebURL(""))
}
