package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	internal_errors "github.com/codingbrain01/MyBlog/backend/internal/errors"
	"github.com/codingbrain01/MyBlog/shared/domain"
)

// namespace is the object store folder owned by a user.
func namespace(userId domain.UserId) string {
	return strconv.FormatInt(userId, 10)
}

// uploadImages uploads files and reports anything a failed upload left behind.
func uploadImages(ctx context.Context, images ImageService, log *slog.Logger, files []*domain.PendingFile, owner domain.UserId) ([]domain.ImageRef, error) {
	refs, err := images.Upload(ctx, files, namespace(owner))
	if err != nil {
		var uploadErr *internal_errors.UploadError
		if errors.As(err, &uploadErr) {
			reportOrphans(log, "upload_failed", uploadErr.Orphans)
		}
		return nil, err
	}
	return refs, nil
}

// deleteImages removes refs from the object store. Failure is logged and counted,
// never returned: the enclosing save or delete still succeeds.
func deleteImages(ctx context.Context, images ImageService, log *slog.Logger, refs []domain.ImageRef, entity string, id int64) {
	if len(refs) == 0 {
		return
	}
	if err := images.Delete(ctx, refs); err != nil {
		log.Error("failed to delete images, leaving orphans",
			"entity", entity,
			"id", id,
			"count", len(refs),
			"error", err)
		imageOrphansTotal.WithLabelValues("delete_failed").Add(float64(len(refs)))
	}
}

// reportOrphans logs stored references that no entity points to.
func reportOrphans(log *slog.Logger, reason string, refs []domain.ImageRef) {
	if len(refs) == 0 {
		return
	}
	log.Warn("images left orphaned", "reason", reason, "refs", refs)
	imageOrphansTotal.WithLabelValues(reason).Add(float64(len(refs)))
}

// checkRemoved verifies every removed reference is attached to the entity and
// returns them without duplicates.
func checkRemoved(previous, removed []domain.ImageRef) ([]domain.ImageRef, error) {
	attached := make(map[domain.ImageRef]struct{}, len(previous))
	for _, ref := range previous {
		attached[ref] = struct{}{}
	}

	seen := make(map[domain.ImageRef]struct{}, len(removed))
	unique := make([]domain.ImageRef, 0, len(removed))
	for _, ref := range removed {
		if _, ok := attached[ref]; !ok {
			return nil, &internal_errors.ValidationError{Message: fmt.Sprintf("image %q is not attached", ref)}
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		unique = append(unique, ref)
	}
	return unique, nil
}

func checkImageCount(count, max int) error {
	if max > 0 && count > max {
		return &internal_errors.ValidationError{Message: fmt.Sprintf("too many images: %d, max %d allowed", count, max)}
	}
	return nil
}
