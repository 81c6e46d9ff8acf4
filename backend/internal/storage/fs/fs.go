package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codingbrain01/MyBlog/backend/internal/service"
)

// Storage is an image bucket on the local filesystem.
// Objects live at <rootPath>/<bucket>/<key> and are served at <publicBaseURL>/<bucket>/<key>.
type Storage struct {
	rootPath   string
	bucketPath string
	publicURL  string
}

// Ensure Storage struct implements the interfaces at compile time.
var (
	_ service.ObjectStore      = (*Storage)(nil)
	_ service.SweepObjectStore = (*Storage)(nil)
)

func New(rootPath, bucket, publicBaseURL string) (*Storage, error) {
	p := filepath.Clean(rootPath)
	bucket = strings.Trim(bucket, "/")
	if bucket == "" || strings.ContainsAny(bucket, `/\`) || bucket == ".." {
		return nil, fmt.Errorf("invalid bucket name %q", bucket)
	}

	bucketPath := filepath.Join(p, bucket)
	if err := os.MkdirAll(bucketPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create bucket directory %s: %w", bucketPath, err)
	}

	return &Storage{
		rootPath:   p,
		bucketPath: bucketPath,
		publicURL:  strings.TrimRight(publicBaseURL, "/") + "/" + bucket + "/",
	}, nil
}

// BucketPath is the directory holding the objects, for serving them over http.
func (s *Storage) BucketPath() string {
	return s.bucketPath
}

// PublicURL is the prefix of every URL returned by Put: <publicBaseURL>/<bucket>/.
func (s *Storage) PublicURL() string {
	return s.publicURL
}

// path maps a key to its file, refusing keys that escape the bucket.
func (s *Storage) path(key string) (string, error) {
	if key == "" || !filepath.IsLocal(filepath.FromSlash(key)) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.bucketPath, filepath.FromSlash(key)), nil
}

// Put writes data under key and returns the public URL of the object.
func (s *Storage) Put(ctx context.Context, key string, data io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fullPath, err := s.path(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create subdirectories: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, data); err != nil {
		os.Remove(fullPath) // Best effort, ignore error here.
		return "", fmt.Errorf("failed to copy file data: %w", err)
	}

	return s.publicURL + key, nil
}

// BulkDelete removes every key. Keys that are already gone are skipped.
// All keys are attempted; the errors are joined.
func (s *Storage) BulkDelete(ctx context.Context, keys []string) error {
	var errs []error
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		fullPath, err := s.path(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// WalkKeys lists the key of every object in the bucket.
func (s *Storage) WalkKeys(ctx context.Context) ([]string, error) {
	keys := []string{}
	err := filepath.WalkDir(s.bucketPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.bucketPath, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk bucket: %w", err)
	}
	return keys, nil
}

func (s *Storage) ModTime(ctx context.Context, key string) (time.Time, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return info.ModTime(), nil
}
