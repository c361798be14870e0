// Package snapshot caches the generated price panel on disk so repeat runs
// with identical inputs can skip regeneration.
package snapshot

import (
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/quantlab/factorpanel/internal/market"
)

// Key identifies the inputs that shape the panel. Two runs with equal keys
// produce byte-identical panels.
type Key struct {
	Seed        uint64
	StartDate   time.Time
	EndDate     time.Time
	TradingDays int
	StockCount  int
	Source      string
}

// Hash returns the hex digest used as the cache discriminator.
func (k Key) Hash() string {
	h := sha256.New()
	fmt.Fprintf(h, "%d|%s|%s|%d|%d|%s",
		k.Seed,
		k.StartDate.Format("2006-01-02"), k.EndDate.Format("2006-01-02"),
		k.TradingDays, k.StockCount, k.Source)
	return hex.EncodeToString(h.Sum(nil))
}

type envelope struct {
	Hash    string        `msgpack:"hash"`
	SavedAt time.Time     `msgpack:"saved_at"`
	Panel   *market.Panel `msgpack:"panel"`
}

// Store reads and writes panel snapshots at a fixed path.
type Store struct {
	path string
	log  zerolog.Logger
}

// NewStore creates a snapshot store at path.
func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{
		path: path,
		log:  log.With().Str("component", "snapshot_store").Logger(),
	}
}

// Load returns the cached panel when a snapshot exists and its hash matches
// the key. A missing or stale snapshot reports ok == false, not an error.
func (s *Store) Load(key Key) (*market.Panel, bool, error) {
	file, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to open snapshot %s: %w", s.path, err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot %s: %w", s.path, err)
	}
	defer gz.Close()

	var env envelope
	if err := msgpack.NewDecoder(gz).Decode(&env); err != nil {
		return nil, false, fmt.Errorf("failed to decode snapshot %s: %w", s.path, err)
	}

	if env.Hash != key.Hash() {
		s.log.Info().Msg("Snapshot inputs changed, regenerating")
		return nil, false, nil
	}

	s.log.Info().Time("saved_at", env.SavedAt).Msg("Panel loaded from snapshot")
	return env.Panel, true, nil
}

// Save writes the panel snapshot atomically via a temp file rename.
func (s *Store) Save(key Key, panel *market.Panel) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp := s.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create snapshot %s: %w", tmp, err)
	}

	gz := gzip.NewWriter(file)
	env := envelope{Hash: key.Hash(), SavedAt: time.Now().UTC(), Panel: panel}
	if err := msgpack.NewEncoder(gz).Encode(env); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := gz.Close(); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to compress snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize snapshot: %w", err)
	}

	s.log.Info().Str("path", s.path).Msg("Panel snapshot saved")
	return nil
}
