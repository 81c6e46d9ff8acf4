package service

import "github.com/codingbrain01/MyBlog/shared/domain"

// Reconcile computes the image list to persist and the images to delete for one edit.
//
// final is the previous images minus removed, in their original order, followed
// by the uploaded images in upload order. toDelete is exactly removed; it is never
// derived from a diff, so an image the user did not remove is never deleted.
// removed must be a subset of previous; this is not re-checked here.
// final is never nil, so clearing the last image persists an empty list.
func Reconcile(previous, removed, uploaded []domain.ImageRef) (final, toDelete []domain.ImageRef) {
	drop := make(map[domain.ImageRef]struct{}, len(removed))
	for _, ref := range removed {
		drop[ref] = struct{}{}
	}

	final = make([]domain.ImageRef, 0, len(previous)+len(uploaded))
	for _, ref := range previous {
		if _, ok := drop[ref]; ok {
			continue
		}
		final = append(final, ref)
	}
	final = append(final, uploaded...)

	toDelete = make([]domain.ImageRef, len(removed))
	copy(toDelete, removed)
	return final, toDelete
}
