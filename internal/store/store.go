// Package store persists the configuration document on the local filesystem.
package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	derrors "git.home.luguber.info/inful/aboutme/internal/foundation/errors"
)

// Messages double as the client-facing error text, so they carry no detail.
const (
	msgReadFailed  = "Failed to read config"
	msgWriteFailed = "Failed to write config"
)

var (
	// ErrStorageUnavailable matches (via errors.Is) every read failure, including malformed JSON.
	ErrStorageUnavailable = derrors.StorageUnavailable(msgReadFailed).Build()
	// ErrStorageWrite matches (via errors.Is) every failed write.
	ErrStorageWrite = derrors.StorageWriteError(msgWriteFailed).Build()
)

// Store reads and replaces the whole configuration document.
type Store interface {
	Get(ctx context.Context) (json.RawMessage, error)
	Set(ctx context.Context, doc json.RawMessage) error
}

// WriteFunc writes data into the temp file during Set. It exists so tests can
// fail a write half way through.
type WriteFunc func(f *os.File, data []byte) error

// FileStore keeps the document in a single JSON file. Every Get re-reads the
// file; Set writes a sibling temp file and renames it over the target, so a
// reader sees either the old or the new document. Concurrent Set calls are
// last-writer-wins.
type FileStore struct {
	path  string
	perm  fs.FileMode
	write WriteFunc
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithFileMode sets the permission bits of the document file.
func WithFileMode(perm fs.FileMode) Option {
	return func(s *FileStore) { s.perm = perm }
}

// WithWriteFunc replaces the function that writes the temp file.
func WithWriteFunc(fn WriteFunc) Option {
	return func(s *FileStore) {
		if fn != nil {
			s.write = fn
		}
	}
}

// NewFileStore creates a store for the document at path.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:  path,
		perm:  0o644,
		write: writeAll,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func writeAll(f *os.File, data []byte) error {
	_, err := f.Write(data)
	return err
}

// Path returns the document location.
func (s *FileStore) Path() string { return s.path }

// Get reads the current document. Missing, unreadable and malformed files all
// return ErrStorageUnavailable; no defaults are substituted.
func (s *FileStore) Get(ctx context.Context) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, derrors.StorageUnavailable(msgReadFailed).WithCause(err).Build()
	}
	// #nosec G304 -- path comes from service configuration
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, derrors.StorageUnavailable(msgReadFailed).
			WithCause(err).
			WithContext("path", s.path).
			Build()
	}
	if !json.Valid(data) {
		return nil, derrors.StorageUnavailable(msgReadFailed).
			WithCause(errors.New("malformed document: invalid JSON")).
			WithContext("path", s.path).
			Build()
	}
	return json.RawMessage(bytes.TrimSpace(data)), nil
}

// Set replaces the document with doc. doc must be valid JSON; it is stored
// indented with key order and number literals preserved.
func (s *FileStore) Set(ctx context.Context, doc json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return derrors.StorageWriteError(msgWriteFailed).WithCause(err).Build()
	}
	data, err := Normalize(doc)
	if err != nil {
		return derrors.StorageWriteError(msgWriteFailed).WithCause(err).Build()
	}
	if err := s.replace(data); err != nil {
		return derrors.StorageWriteError(msgWriteFailed).
			WithCause(err).
			WithContext("path", s.path).
			Build()
	}
	return nil
}

func (s *FileStore) replace(data []byte) (err error) {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err = s.write(tmp, data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpPath, s.perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

// Seed writes doc only when no document exists yet, unless force is set.
// It reports whether anything was written.
func (s *FileStore) Seed(ctx context.Context, doc json.RawMessage, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(s.path); err == nil {
			return false, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return false, derrors.StorageUnavailable(msgReadFailed).WithCause(err).WithContext("path", s.path).Build()
		}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return false, derrors.StorageWriteError(msgWriteFailed).WithCause(err).WithContext("path", s.path).Build()
	}
	if err := s.Set(ctx, doc); err != nil {
		return false, err
	}
	return true, nil
}

// Probe checks that the document is readable and well formed.
func (s *FileStore) Probe(ctx context.Context) error {
	_, err := s.Get(ctx)
	return err
}

// Normalize validates doc and returns the exact bytes Set would store.
func Normalize(doc json.RawMessage) ([]byte, error) {
	if len(bytes.TrimSpace(doc)) == 0 {
		return nil, errors.New("empty document")
	}
	if !json.Valid(doc) {
		return nil, errors.New("document is not valid JSON")
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, doc); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Digest returns the hex SHA-256 of the normalized document, or of the raw
// bytes when they are not valid JSON.
func Digest(doc json.RawMessage) string {
	data, err := Normalize(doc)
	if err != nil {
		data = doc
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
