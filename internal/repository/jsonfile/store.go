// Package jsonfile keeps the task collection in a single JSON document.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"task-tracker/internal/errors"
	"task-tracker/internal/logging"
)

const (
	defaultDirPerm  os.FileMode = 0755
	defaultFilePerm os.FileMode = 0644
	sequenceSuffix              = ".seq"
)

// FileStore reads and writes the whole task document. Writes go to a
// temporary sibling file that is renamed over the target.
type FileStore struct {
	fs      afero.Fs
	path    string
	dirPerm os.FileMode
}

// NewFileStore creates a store for the document at path on fs.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path, dirPerm: defaultDirPerm}
}

// WithDirPermissions sets the mode used when creating the containing directory.
func (s *FileStore) WithDirPermissions(perm os.FileMode) *FileStore {
	if perm != 0 {
		s.dirPerm = perm
	}
	return s
}

// Path returns the location of the task document.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) sequencePath() string {
	return s.path + sequenceSuffix
}

// Read returns every stored record. A missing document is an empty
// collection; its directory is created so the first write succeeds.
func (s *FileStore) Read(ctx context.Context) ([]Record, error) {
	if err := errors.CheckContext(ctx, "read tasks"); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Debugf("store %s not found, starting empty", s.path)
			if err := s.ensureDir(); err != nil {
				return nil, err
			}
			return []Record{}, nil
		}
		return nil, errors.NewStorageError("read tasks", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []Record{}, nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.NewStorageError("parse tasks", fmt.Errorf("%s: %w", s.path, err))
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Write replaces the stored document with records.
func (s *FileStore) Write(ctx context.Context, records []Record) error {
	if err := errors.CheckContext(ctx, "write tasks"); err != nil {
		return err
	}
	if records == nil {
		records = []Record{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.NewStorageError("encode tasks", err)
	}
	data = append(data, '\n')

	if err := s.replace(s.path, data); err != nil {
		return errors.NewStorageError("write tasks", err)
	}
	logging.Debugf("wrote %d tasks to %s", len(records), s.path)
	return nil
}

// ReadSequence returns the highest id ever assigned, 0 when unknown.
func (s *FileStore) ReadSequence(ctx context.Context) (int64, error) {
	if err := errors.CheckContext(ctx, "read sequence"); err != nil {
		return 0, err
	}

	data, err := afero.ReadFile(s.fs, s.sequencePath())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.NewStorageError("read sequence", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil || n < 0 {
		return 0, errors.NewStorageError("parse sequence", fmt.Errorf("invalid sequence value %q", text))
	}
	return n, nil
}

// WriteSequence records n as the highest id ever assigned.
func (s *FileStore) WriteSequence(ctx context.Context, n int64) error {
	if err := errors.CheckContext(ctx, "write sequence"); err != nil {
		return err
	}
	if err := s.replace(s.sequencePath(), []byte(strconv.FormatInt(n, 10)+"\n")); err != nil {
		return errors.NewStorageError("write sequence", err)
	}
	return nil
}

func (s *FileStore) ensureDir() error {
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, s.dirPerm); err != nil {
		return errors.NewStorageError("create directory", err)
	}
	return nil
}

// replace writes data to a temporary file next to target and renames it into place.
func (s *FileStore) replace(target string, data []byte) error {
	dir := filepath.Dir(target)
	if err := s.fs.MkdirAll(dir, s.dirPerm); err != nil {
		return err
	}

	tmp := target + ".tmp-" + uuid.NewString()
	if err := afero.WriteFile(s.fs, tmp, data, defaultFilePerm); err != nil {
		_ = s.fs.Remove(tmp)
		return err
	}
	if err := s.fs.Rename(tmp, target); err != nil {
		_ = s.fs.Remove(tmp)
		return err
	}
	return nil
}
