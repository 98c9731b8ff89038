package drive

// Defaults for the Drive connector.
const (
	DefaultPageSize        = 100
	DefaultMaxDownloadSize = 20 * 1024 * 1024
)

// Config holds Google Drive connector configuration.
type Config struct {
	// FolderID is the folder scanned by Discover. Empty disables discovery.
	FolderID string
	// PageSize is the page size for list requests.
	PageSize int64
	// MaxDownloadSize caps the bytes read from one file.
	MaxDownloadSize int64
}

// DefaultConfig returns the default configuration for a folder.
func DefaultConfig(folderID string) Config {
	return Config{
		FolderID:        folderID,
		PageSize:        DefaultPageSize,
		MaxDownloadSize: DefaultMaxDownloadSize,
	}
}

func (c Config) withDefaults() Config {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.MaxDownloadSize <= 0 {
		c.MaxDownloadSize = DefaultMaxDownloadSize
	}
	return c
}
