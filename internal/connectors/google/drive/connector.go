// Package drive reads book sources from Google Drive.
package drive

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"

	"github.com/MaxSetka1/max-autopost-bot/internal/connectors/google"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
	"github.com/MaxSetka1/max-autopost-bot/internal/logger"
)

const (
	fileFields = "id, name, mimeType, size, webViewLink, modifiedTime"
	listFields = "nextPageToken, files(" + fileFields + ")"
)

// Connector fetches source text from Drive and lists the books folder.
type Connector struct {
	svc         *drive.Service
	cfg         Config
	normalisers driven.NormaliserRegistry
	limiter     *google.RateLimiter
}

var (
	_ driven.SourceFetcher    = (*Connector)(nil)
	_ driven.SourceDiscoverer = (*Connector)(nil)
	_ driven.SourceMetadata   = (*Connector)(nil)
)

// New creates a Drive connector. Downloaded files are converted to text
// through normalisers.
func New(svc *drive.Service, cfg Config, normalisers driven.NormaliserRegistry) *Connector {
	return &Connector{
		svc:         svc,
		cfg:         cfg.withDefaults(),
		normalisers: normalisers,
		limiter:     google.NewRateLimiter(google.ServiceDrive),
	}
}

// FetchText downloads a file and returns its normalised text.
func (c *Connector) FetchText(ctx context.Context, sourceID string) (string, error) {
	file, err := c.Fetch(ctx, sourceID)
	if err != nil {
		return "", err
	}
	res, err := c.normalisers.Normalise(ctx, file)
	if err != nil {
		return "", fmt.Errorf("normalising %s: %w", sourceID, err)
	}
	logger.Debug("drive: fetched %s (%s, %d bytes, %d chars)", sourceID, res.Format, len(file.Content), len(res.Text))
	return res.Text, nil
}

// Fetch downloads the raw file.
func (c *Connector) Fetch(ctx context.Context, sourceID string) (*domain.SourceFile, error) {
	meta, err := c.metadata(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if meta.MimeType == MimeTypeFolder {
		return nil, fmt.Errorf("%s is a folder: %w", sourceID, domain.ErrUnsupportedType)
	}

	var file *domain.SourceFile
	err = c.limiter.Do(ctx, func() error {
		var err error
		file, err = download(ctx, c.svc, meta, c.cfg.MaxDownloadSize)
		return err
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

// Lookup returns a title derived from the Drive file name.
func (c *Connector) Lookup(ctx context.Context, sourceID string) (domain.SourceMeta, error) {
	meta, err := c.metadata(ctx, sourceID)
	if err != nil {
		return domain.SourceMeta{}, err
	}
	return domain.SourceMeta{Title: domain.TitleFromName(meta.Name)}, nil
}

// Discover lists the files in the configured folder, skipping folders and
// Workspace types that have no text export.
func (c *Connector) Discover(ctx context.Context) ([]domain.CatalogEntry, error) {
	if c.cfg.FolderID == "" {
		return nil, fmt.Errorf("drive folder not configured: %w", domain.ErrInvalidInput)
	}

	q := fmt.Sprintf("'%s' in parents and trashed = false", strings.ReplaceAll(c.cfg.FolderID, "'", `\'`))
	var entries []domain.CatalogEntry
	pageToken := ""
	for {
		var page *drive.FileList
		err := c.limiter.Do(ctx, func() error {
			call := c.svc.Files.List().
				Q(q).
				Fields(listFields).
				PageSize(c.cfg.PageSize).
				OrderBy("name").
				SupportsAllDrives(true).
				IncludeItemsFromAllDrives(true).
				Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			var err error
			page, err = call.Do()
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("listing folder %s: %w", c.cfg.FolderID, err)
		}

		for _, f := range page.Files {
			if !discoverable(f.MimeType) {
				continue
			}
			entries = append(entries, toCatalogEntry(f))
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}
	return entries, nil
}

func (c *Connector) metadata(ctx context.Context, sourceID string) (*drive.File, error) {
	if sourceID == "" {
		return nil, domain.ErrInvalidInput
	}
	var meta *drive.File
	err := c.limiter.Do(ctx, func() error {
		var err error
		meta, err = c.svc.Files.Get(sourceID).Fields(fileFields).SupportsAllDrives(true).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reading metadata for %s: %w", sourceID, err)
	}
	return meta, nil
}

func discoverable(mimeType string) bool {
	if mimeType == MimeTypeFolder {
		return false
	}
	if strings.HasPrefix(mimeType, mimeTypeGoogleApps) {
		return exportFormat(mimeType) != ""
	}
	return true
}
