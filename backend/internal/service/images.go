package service

import (
	"context"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	internal_errors "github.com/codingbrain01/MyBlog/backend/internal/errors"
	"github.com/codingbrain01/MyBlog/shared/domain"
	"github.com/codingbrain01/MyBlog/shared/logger"
)

// ObjectStore is the bucket holding image objects.
type ObjectStore interface {
	// Put stores the data under key and returns its public URL.
	Put(ctx context.Context, key string, data io.Reader) (string, error)
	// BulkDelete removes all keys. Missing keys are not an error.
	BulkDelete(ctx context.Context, keys []string) error
}

// ImageService uploads and deletes entity images.
type ImageService interface {
	Upload(ctx context.Context, files []*domain.PendingFile, namespace string) ([]domain.ImageRef, error)
	Delete(ctx context.Context, refs []domain.ImageRef) error
	ResolvePath(ref domain.ImageRef) (string, bool)
}

// ImageStore maps image references to object store keys.
// References have the form <base>/<bucket>/<namespace>/<generatedId>.<ext>.
type ImageStore struct {
	store  ObjectStore
	prefix string // "<base>/<bucket>/"
	newId  func() string
}

var _ ImageService = (*ImageStore)(nil)

// NewImageStore creates an image store. publicPrefix is the URL prefix the
// object store puts in front of every key it returns, bucket included.
func NewImageStore(store ObjectStore, publicPrefix string) *ImageStore {
	return &ImageStore{
		store:  store,
		prefix: strings.TrimRight(publicPrefix, "/") + "/",
		newId:  uuid.NewString,
	}
}

// Upload stores every file under namespace and returns the references in input order.
// It is not atomic: on failure the returned UploadError lists what was already stored.
func (s *ImageStore) Upload(ctx context.Context, files []*domain.PendingFile, namespace string) ([]domain.ImageRef, error) {
	refs := make([]domain.ImageRef, 0, len(files))
	for _, f := range files {
		key := path.Join(namespace, s.newId()+extension(f))
		ref, err := s.store.Put(ctx, key, f.Data)
		if err != nil {
			return nil, &internal_errors.UploadError{Filename: f.Filename, Orphans: refs, Err: err}
		}
		refs = append(refs, ref)
		imagesUploadedTotal.Inc()
	}
	return refs, nil
}

// Delete removes refs from the object store in one bulk call.
// References that do not resolve to a key are skipped.
func (s *ImageStore) Delete(ctx context.Context, refs []domain.ImageRef) error {
	if len(refs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		key, ok := s.ResolvePath(ref)
		if !ok {
			logger.Log.Warn("skipping unresolvable image reference", "component", "images", "ref", ref)
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := s.store.BulkDelete(ctx, keys); err != nil {
		return &internal_errors.DeleteError{Keys: keys, Err: err}
	}
	imagesDeletedTotal.Add(float64(len(keys)))
	return nil
}

// ResolvePath extracts the storage key from a public reference by stripping
// the public prefix. References minted elsewhere do not resolve.
func (s *ImageStore) ResolvePath(ref domain.ImageRef) (string, bool) {
	key, found := strings.CutPrefix(ref, s.prefix)
	if !found || key == "" {
		return "", false
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return "", false
		}
	}
	return key, true
}

// extension picks the stored file extension: the original one when present,
// otherwise one derived from the MIME type.
func extension(f *domain.PendingFile) string {
	ext := strings.ToLower(filepath.Ext(f.Filename))
	if ext != "" && !strings.ContainsAny(ext, `/\`) {
		return ext
	}
	if ext, ok := imageExtensions[f.MimeType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(f.MimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}
