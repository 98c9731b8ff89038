package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
)

// Channel definition files inside the config directory.
const (
	ChannelsFile  = "channels.yaml"
	SchedulesFile = "schedules.yaml"
	SourcesFile   = "sources.yaml"
)

// Ensure ChannelStore implements the interface.
var _ driven.ChannelProvider = (*ChannelStore)(nil)

// channelsDoc is channels.yaml.
type channelsDoc struct {
	Channels []struct {
		Alias    string `yaml:"alias"`
		Name     string `yaml:"name"`
		TokenEnv string `yaml:"token_env"`
		Timezone string `yaml:"timezone"`
		Enabled  *bool  `yaml:"enabled"`
	} `yaml:"channels"`
}

// schedulesDoc is schedules.yaml. Slots is the legacy name-keyed map.
type schedulesDoc struct {
	Timezone  string                   `yaml:"timezone"`
	DefaultTZ string                   `yaml:"default_tz"`
	Slots     map[string][]domain.Slot `yaml:"slots"`
	Channels  []struct {
		Alias    string        `yaml:"alias"`
		Name     string        `yaml:"name"`
		Timezone string        `yaml:"timezone"`
		Slots    []domain.Slot `yaml:"slots"`
	} `yaml:"channels"`
}

// sourcesDoc is sources.yaml.
type sourcesDoc struct {
	Channels map[string]struct {
		Books struct {
			BookID string `yaml:"book_id"`
		} `yaml:"books"`
	} `yaml:"channels"`
}

// ChannelStore reads channel, schedule and source bindings from YAML files.
type ChannelStore struct {
	mu       sync.RWMutex
	dir      string
	channels []domain.Channel
}

// NewChannelStore loads the channel files from dir. Missing files are treated as empty.
func NewChannelStore(dir string) (*ChannelStore, error) {
	s := &ChannelStore{dir: dir}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the directory the files are read from.
func (s *ChannelStore) Dir() string {
	return s.dir
}

// Files returns the file names the store reads.
func (s *ChannelStore) Files() []string {
	return []string{ChannelsFile, SchedulesFile, SourcesFile}
}

// Channels returns a copy of every configured channel.
func (s *ChannelStore) Channels() []domain.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Channel, len(s.channels))
	for i, ch := range s.channels {
		ch.Slots = append([]domain.Slot(nil), ch.Slots...)
		out[i] = ch
	}
	return out
}

// Channel resolves a channel by name or alias.
func (s *ChannelStore) Channel(key string) (domain.Channel, bool) {
	for _, ch := range s.Channels() {
		if ch.Matches(key) {
			return ch, true
		}
	}
	return domain.Channel{}, false
}

// Reload re-reads the files. On error the previous channels are kept.
func (s *ChannelStore) Reload() error {
	var chDoc channelsDoc
	if err := readYAML(filepath.Join(s.dir, ChannelsFile), &chDoc); err != nil {
		return err
	}
	var scDoc schedulesDoc
	if err := readYAML(filepath.Join(s.dir, SchedulesFile), &scDoc); err != nil {
		return err
	}
	var srcDoc sourcesDoc
	if err := readYAML(filepath.Join(s.dir, SourcesFile), &srcDoc); err != nil {
		return err
	}

	defaultTZ := firstNonEmpty(scDoc.DefaultTZ, scDoc.Timezone, domain.DefaultTimezone)

	channels := make([]domain.Channel, 0, len(chDoc.Channels))
	for _, c := range chDoc.Channels {
		ch := domain.Channel{
			Alias:    strings.TrimSpace(c.Alias),
			Name:     strings.TrimSpace(c.Name),
			TokenEnv: strings.TrimSpace(c.TokenEnv),
			Enabled:  c.Enabled == nil || *c.Enabled,
		}
		if ch.Name == "" {
			ch.Name = ch.Alias
		}

		slots, scheduleTZ := scDoc.slotsFor(ch.Alias, ch.Name)
		ch.Slots = slots
		ch.Timezone = firstNonEmpty(strings.TrimSpace(c.Timezone), scheduleTZ, defaultTZ)

		if src, ok := srcDoc.Channels[ch.Name]; ok {
			ch.SourceID = strings.TrimSpace(src.Books.BookID)
		} else if src, ok := srcDoc.Channels[ch.Alias]; ok {
			ch.SourceID = strings.TrimSpace(src.Books.BookID)
		}

		channels = append(channels, ch)
	}

	s.mu.Lock()
	s.channels = channels
	s.mu.Unlock()
	return nil
}

// slotsFor returns the slots and schedule timezone for a channel.
// The legacy slots map wins over the channels list.
func (d schedulesDoc) slotsFor(alias, name string) ([]domain.Slot, string) {
	if slots := d.Slots[name]; len(slots) > 0 {
		return slots, ""
	}
	if slots := d.Slots[alias]; len(slots) > 0 {
		return slots, ""
	}
	for _, c := range d.Channels {
		if (alias != "" && c.Alias == alias) || (name != "" && c.Name == name) {
			return c.Slots, strings.TrimSpace(c.Timezone)
		}
	}
	return nil, ""
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
