package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"google.golang.org/api/drive/v3"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
)

// Google Workspace MIME types.
const (
	MimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeTypeFolder       = "application/vnd.google-apps.folder"
	mimeTypeGoogleApps   = "application/vnd.google-apps."
)

// Export formats for Google Workspace files.
const (
	ExportMimeText = "text/plain"
	ExportMimeCSV  = "text/csv"
)

// exportFormat returns the export MIME type for a Workspace file, or ""
// when the file is downloaded as-is.
func exportFormat(mimeType string) string {
	switch mimeType {
	case MimeTypeGoogleDoc, MimeTypeGoogleSlides:
		return ExportMimeText
	case MimeTypeGoogleSheet:
		return ExportMimeCSV
	default:
		return ""
	}
}

// download reads a file's content, exporting Workspace files to text.
func download(ctx context.Context, svc *drive.Service, file *drive.File, limit int64) (*domain.SourceFile, error) {
	var (
		resp     *http.Response
		err      error
		mimeType = file.MimeType
	)
	if export := exportFormat(file.MimeType); export != "" {
		resp, err = svc.Files.Export(file.Id, export).Context(ctx).Download()
		mimeType = export
	} else {
		resp, err = svc.Files.Get(file.Id).SupportsAllDrives(true).Context(ctx).Download()
	}
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", file.Id, err)
	}
	defer resp.Body.Close()

	// Read one byte past the limit to detect oversized files.
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file.Id, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("file %s exceeds %d bytes: %w", file.Id, limit, domain.ErrInvalidInput)
	}

	return &domain.SourceFile{
		ID:       file.Id,
		Name:     file.Name,
		MIMEType: mimeType,
		Content:  data,
	}, nil
}

// toCatalogEntry converts a listed file into a new catalog entry.
func toCatalogEntry(file *drive.File) domain.CatalogEntry {
	url := file.WebViewLink
	if url == "" {
		url = WebURL(file.Id)
	}
	return domain.CatalogEntry{
		ID:       file.Id,
		Title:    domain.TitleFromName(file.Name),
		MIMEType: file.MimeType,
		URL:      url,
		Status:   domain.CatalogNew,
	}
}
