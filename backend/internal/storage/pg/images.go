package pg

import (
	"context"

	"github.com/codingbrain01/MyBlog/backend/internal/service"
	"github.com/codingbrain01/MyBlog/shared/domain"
)

var _ service.SweepStorage = (*Storage)(nil)

// GetAllImageRefs returns every image reference held by any post or comment.
func (s *Storage) GetAllImageRefs(ctx context.Context) ([]domain.ImageRef, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT unnest(images) FROM posts
	UNION ALL
	SELECT unnest(images) FROM comments`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := []domain.ImageRef{}
	for rows.Next() {
		var ref domain.ImageRef
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
