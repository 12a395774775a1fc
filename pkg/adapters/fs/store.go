// Package fs stores the board snapshot in a single local file.
//
// The file extension selects the on-disk format (.json, .yaml or .yml).
// Whatever the format, the store speaks the canonical JSON snapshot to the
// engine: YAML files are transcoded on every Load and Save. Writes are
// atomic (temp file + rename). When Versioned is set every save is also
// committed to a git repository rooted at the file's directory.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/muralis/pkg/codec"
	"github.com/aretw0/muralis/pkg/core"
	"github.com/aretw0/muralis/pkg/git"
)

// DefaultPath is the board file used when none is configured.
const DefaultPath = core.StorageKey + ".json"

// Config holds the configuration for the file store.
type Config struct {
	Path      string
	Perm      os.FileMode
	Versioned bool
	Logger    *slog.Logger
	// ErrorHandler receives background failures (watcher, git). Optional.
	ErrorHandler func(error)
}

// Store implements core.Store on a local file.
type Store struct {
	Path       string
	config     Config
	format     string
	serializer codec.Serializer
	git        *git.Client

	mu            sync.RWMutex
	saves         int
	lastSave      *time.Time
	lastWritten   stamp
	observed      stamp
	watcherActive bool
	lastReconcile *time.Time
}

// stamp identifies one version of the file on disk.
type stamp struct {
	exists  bool
	size    int64
	modTime time.Time
}

func (a stamp) same(b stamp) bool {
	return a.exists == b.exists && a.size == b.size && a.modTime.Equal(b.modTime)
}

func statStamp(path string) stamp {
	info, err := os.Stat(path)
	if err != nil {
		return stamp{}
	}
	return stamp{exists: true, size: info.Size(), modTime: info.ModTime()}
}

// NewStore creates a file-backed store. Call Initialize before use.
func NewStore(config Config) *Store {
	if config.Path == "" {
		config.Path = DefaultPath
	}
	if config.Perm == 0 {
		config.Perm = 0644
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	ext := strings.ToLower(filepath.Ext(config.Path))
	format := strings.TrimPrefix(ext, ".")
	if format == "yml" {
		format = "yaml"
	}
	if format != "yaml" {
		format = "json"
	}

	s := &Store{
		Path:       config.Path,
		config:     config,
		format:     format,
		serializer: codec.ForExt(ext),
	}
	if config.Versioned {
		s.git = git.NewClient(filepath.Dir(config.Path), config.Logger)
	}
	return s
}

// Initialize creates the parent directory and, for versioned stores, the
// git repository.
func (s *Store) Initialize(ctx context.Context) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	s.mu.Lock()
	s.observed = statStamp(s.Path)
	s.mu.Unlock()

	if s.git == nil {
		return nil
	}
	if !git.IsInstalled() {
		return fmt.Errorf("versioned store requires git, which is not installed")
	}
	if !s.git.IsRepo(ctx) {
		s.config.Logger.Info("initializing git repository", "path", dir)
		if err := s.git.Init(ctx); err != nil {
			return fmt.Errorf("failed to init git repository: %w", err)
		}
	}
	return nil
}

// Format returns "json" or "yaml".
func (s *Store) Format() string { return s.format }

// Load reads the snapshot. A missing file is core.ErrNotFound; an unparsable
// YAML file is core.ErrDecode.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}

	if s.format == "json" {
		return raw, nil
	}
	notes, err := s.serializer.Unmarshal(raw)
	if err != nil {
		return nil, err
	}
	return codec.EncodeStore(notes)
}

// Save writes the snapshot atomically.
func (s *Store) Save(ctx context.Context, data []byte) error {
	out := data
	if s.format != "json" {
		notes, err := codec.DecodeStore(data)
		if err != nil {
			return fmt.Errorf("failed to transcode snapshot: %w", err)
		}
		if out, err = s.serializer.Marshal(notes); err != nil {
			return fmt.Errorf("failed to encode %s: %w", s.format, err)
		}
	}

	// The watcher checks ownWrite under the read lock, so it waits until the
	// new stamp is recorded.
	s.mu.Lock()
	if err := writeFileAtomic(s.Path, out, s.config.Perm); err != nil {
		s.mu.Unlock()
		return err
	}
	now := time.Now()
	st := statStamp(s.Path)
	s.saves++
	s.lastSave = &now
	s.lastWritten = st
	s.observed = st
	s.mu.Unlock()

	s.commit(ctx, "update board")
	return nil
}

// Clear removes the file. A missing file is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", s.Path, err)
	}
	s.mu.Lock()
	s.observed = stamp{}
	s.lastWritten = stamp{}
	s.mu.Unlock()

	s.commit(ctx, "clear board")
	return nil
}

// commit records the current file in git. Failures never fail the write
// that triggered them: the snapshot is already on disk.
func (s *Store) commit(ctx context.Context, msg string) {
	if s.git == nil {
		return
	}
	if err := s.commitLocked(ctx, msg); err != nil {
		s.report(fmt.Errorf("failed to version board: %w", err))
	}
}

func (s *Store) commitLocked(ctx context.Context, msg string) error {
	unlock, err := s.git.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	base := filepath.Base(s.Path)
	if err := s.git.Add(ctx, base); err != nil {
		return err
	}
	status, err := s.git.Status(ctx, base)
	if err != nil {
		return err
	}
	if status == "" {
		return nil
	}
	return s.git.Commit(ctx, msg)
}

// History lists the commits of a versioned store, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]core.Revision, error) {
	if s.git == nil {
		return nil, fmt.Errorf("store %s is not versioned", s.Path)
	}
	commits, err := s.git.Log(ctx, filepath.Base(s.Path), limit)
	if err != nil {
		return nil, err
	}
	revs := make([]core.Revision, len(commits))
	for i, c := range commits {
		revs[i] = core.Revision{ID: c.Hash, Time: c.Time, Subject: c.Subject}
	}
	return revs, nil
}

// Revision returns the canonical snapshot as of a commit.
func (s *Store) Revision(ctx context.Context, rev string) ([]byte, error) {
	if s.git == nil {
		return nil, fmt.Errorf("store %s is not versioned", s.Path)
	}
	raw, err := s.git.Show(ctx, rev, filepath.Base(s.Path))
	if err != nil {
		return nil, err
	}
	notes, err := s.serializer.Unmarshal(raw)
	if err != nil {
		return nil, err
	}
	return codec.EncodeStore(notes)
}

func (s *Store) report(err error) {
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
		return
	}
	s.config.Logger.Warn("store background error", "error", err)
}

// ownWrite reports whether the file on disk is the one this store last wrote.
func (s *Store) ownWrite(st stamp) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return st.exists && st.same(s.lastWritten)
}

var _ core.Store = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
var _ core.Versioned = (*Store)(nil)
