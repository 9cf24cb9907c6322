package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileMode is the permission set of a newly created ledger file.
const FileMode fs.FileMode = 0o644

// FileStore keeps the ledger in a human-readable text file.
type FileStore struct {
	fs   afero.Fs
	path string
}

func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Read(_ context.Context) ([]Entry, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Write replaces the file by renaming a fully written sibling over it, so
// an interrupted write leaves the previous ledger in place.
func (s *FileStore) Write(_ context.Context, entries []Entry) (err error) {
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create ledger directory: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("unable to create temporary ledger: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			s.fs.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(Encode(entries)); err != nil {
		return fmt.Errorf("unable to write temporary ledger: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("unable to sync temporary ledger: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("unable to close temporary ledger: %w", err)
	}
	if err = s.fs.Chmod(tmp.Name(), s.mode()); err != nil {
		return fmt.Errorf("unable to set ledger permissions: %w", err)
	}
	if err = s.fs.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("unable to replace ledger: %w", err)
	}
	return nil
}

// mode keeps the permissions of an existing ledger.
func (s *FileStore) mode() fs.FileMode {
	if info, err := s.fs.Stat(s.path); err == nil {
		return info.Mode().Perm()
	}
	return FileMode
}
