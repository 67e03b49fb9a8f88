// Package store implements the storage contract on top of path resolution
// and an injected filesystem: save, retrieve, inspect, remove and destroy,
// plus a pipe-style duplex adapter. The store holds only immutable
// configuration; concurrent calls are independent.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/prn-tf/shardstore/internal/metrics"
	"github.com/prn-tf/shardstore/internal/resolver"
)

// ErrNotFound indicates no file exists at the identifier's resolved path.
var ErrNotFound = errors.New("file not found")

// Config holds the store's immutable configuration.
type Config struct {
	// Root is the storage root directory. Shard directories and files are
	// created beneath it.
	Root string

	// Prefix is prepended verbatim to public paths. Default empty.
	Prefix string
}

// Store orchestrates path resolution against a filesystem. The filesystem
// is injected so tests can run against afero.NewMemMapFs without touching
// disk; production uses afero.NewOsFs.
type Store struct {
	fs      afero.Fs
	root    string
	prefix  string
	metrics *metrics.StoreMetrics
	logger  zerolog.Logger
}

// New creates a Store over the given filesystem. m may be nil to run
// unmetered.
func New(fs afero.Fs, cfg Config, m *metrics.StoreMetrics, logger zerolog.Logger) *Store {
	return &Store{
		fs:      fs,
		root:    cfg.Root,
		prefix:  cfg.Prefix,
		metrics: m,
		logger:  logger.With().Str("component", "store").Logger(),
	}
}

// SavedFile identifies a stored file by its public address forms.
type SavedFile struct {
	ID              string `json:"id"`
	ClientPath      string `json:"clientPath"`
	ShortClientPath string `json:"shortClientPath"`
}

// Save persists the reader's content at the identifier's resolved location,
// creating the shard directory chain as needed. An existing file is
// overwritten. There is no temp-file commit step: a failed copy may leave a
// partial file behind, and a concurrent reader of the same identifier may
// observe one.
func (s *Store) Save(ctx context.Context, identifier string, r io.Reader) (saved *SavedFile, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOp("save", start, err) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	paths := s.resolve(identifier)

	if err = s.fs.MkdirAll(paths.ShardRootPath, 0o755); err != nil {
		return nil, fmt.Errorf("creating shard directory %s: %w", paths.ShardRootPath, err)
	}
	f, err := s.fs.Create(paths.AbsoluteStoragePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s for write: %w", paths.AbsoluteStoragePath, err)
	}

	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("writing %s: %w", paths.AbsoluteStoragePath, err)
	}

	s.metrics.AddBytesWritten(written)
	s.logger.Debug().
		Str("id", identifier).
		Str("path", paths.AbsoluteStoragePath).
		Int64("bytes", written).
		Msg("file saved")

	return &SavedFile{
		ID:              identifier,
		ClientPath:      paths.PublicLongPath,
		ShortClientPath: paths.PublicShortPath,
	}, nil
}

// Retrieve opens the stored content for the identifier. It fails with
// ErrNotFound when nothing is stored there; unlike Info, retrieval is a
// hard-fail read. The caller must close the returned stream.
func (s *Store) Retrieve(ctx context.Context, identifier string) (rc io.ReadCloser, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOp("retrieve", start, err) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	paths := s.resolve(identifier)

	if _, err = s.fs.Stat(paths.AbsoluteStoragePath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s does not exist: %w", paths.AbsoluteStoragePath, ErrNotFound)
		}
		return nil, fmt.Errorf("probing %s: %w", paths.AbsoluteStoragePath, err)
	}
	f, err := s.fs.Open(paths.AbsoluteStoragePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", paths.AbsoluteStoragePath, err)
	}
	return &meteredReadCloser{ReadCloser: f, metrics: s.metrics}, nil
}

// Remove deletes the stored content for the identifier. Removing an
// identifier with no backing file is not an error.
func (s *Store) Remove(ctx context.Context, identifier string) (err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOp("remove", start, err) }()

	if err = ctx.Err(); err != nil {
		return err
	}
	paths := s.resolve(identifier)

	if err = s.fs.RemoveAll(paths.AbsoluteStoragePath); err != nil {
		return fmt.Errorf("removing %s: %w", paths.AbsoluteStoragePath, err)
	}
	s.logger.Debug().Str("id", identifier).Str("path", paths.AbsoluteStoragePath).Msg("file removed")
	return nil
}

// Destroy deletes the storage root and everything beneath it. The root is
// created first so destroying a store that never wrote anything succeeds.
func (s *Store) Destroy(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOp("destroy", start, err) }()

	if err = ctx.Err(); err != nil {
		return err
	}
	if err = s.fs.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("ensuring storage root %s: %w", s.root, err)
	}
	if err = s.fs.RemoveAll(s.root); err != nil {
		return fmt.Errorf("destroying storage root %s: %w", s.root, err)
	}
	s.logger.Info().Str("root", s.root).Msg("storage root destroyed")
	return nil
}

func (s *Store) resolve(identifier string) resolver.PathSet {
	return resolver.Resolve(identifier, s.root, s.prefix)
}

// meteredReadCloser counts bytes handed to the caller.
type meteredReadCloser struct {
	io.ReadCloser
	metrics *metrics.StoreMetrics
}

func (r *meteredReadCloser) Read(p []byte) (int, error) {
	n, err := r.ReadCloser.Read(p)
	r.metrics.AddBytesRead(int64(n))
	return n, err
}
