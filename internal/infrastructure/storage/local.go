package storage

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"telemed-platform/config"
)

var (
	ErrObjectExists   = errors.New("object already exists")
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidName    = errors.New("invalid bucket or object name")
)

// LocalStore is a disk-backed object store addressed by bucket and object
// name, serving stored objects over a stable public URL.
type LocalStore struct {
	baseDir   string
	publicURL string
}

func NewLocalStore(cfg config.StorageConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &LocalStore{
		baseDir:   cfg.Dir,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// Upload stores an object and returns its public URL. When overwrite is
// false an existing object with the same name is an error; the overwrite
// policy is the caller's choice.
func (s *LocalStore) Upload(bucket, objectName string, r io.Reader, overwrite bool) (string, int64, error) {
	path, err := s.objectPath(bucket, objectName)
	if err != nil {
		return "", 0, err
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", 0, ErrObjectExists
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return "", 0, err
	}

	return s.PublicURL(bucket, objectName), size, nil
}

// Delete removes an object; deleting a missing object is an error.
func (s *LocalStore) Delete(bucket, objectName string) error {
	path, err := s.objectPath(bucket, objectName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrObjectNotFound
		}
		return err
	}
	return nil
}

// PublicURL returns the stable URL under which an object is served.
func (s *LocalStore) PublicURL(bucket, objectName string) string {
	return fmt.Sprintf("%s/files/%s/%s", s.publicURL, bucket, objectName)
}

// Handler serves stored objects for GET /files/{bucket}/{object}.
func (s *LocalStore) Handler() http.Handler {
	return http.StripPrefix("/files/", http.FileServer(http.Dir(s.baseDir)))
}

// objectPath resolves and validates the on-disk path for an object,
// rejecting names that would escape the storage root.
func (s *LocalStore) objectPath(bucket, objectName string) (string, error) {
	if bucket == "" || objectName == "" {
		return "", ErrInvalidName
	}
	path := filepath.Join(s.baseDir, bucket, objectName)
	base, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(abs, base+string(filepath.Separator)) {
		return "", ErrInvalidName
	}
	return path, nil
}
