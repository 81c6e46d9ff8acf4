package service

import (
	"context"
	"log/slog"

	internal_errors "github.com/codingbrain01/MyBlog/backend/internal/errors"
	"github.com/codingbrain01/MyBlog/shared/domain"
	"github.com/codingbrain01/MyBlog/shared/logger"
)

// CascadeStorage is the slice of the relational store a post deletion touches.
type CascadeStorage interface {
	GetPost(ctx context.Context, id domain.PostId) (*domain.Post, error)
	GetComments(ctx context.Context, postId domain.PostId) ([]*domain.Comment, error)
	DeletePost(ctx context.Context, id domain.PostId) error
}

// Cascade deletes a post with everything it transitively owns.
type Cascade struct {
	storage CascadeStorage
	images  ImageService
	log     *slog.Logger
}

func NewCascade(storage CascadeStorage, images ImageService) *Cascade {
	return &Cascade{
		storage: storage,
		images:  images,
		log:     logger.Component("cascade"),
	}
}

// DeletePost deletes comment images, then post images, then the rows.
// Objects go first so that an interrupted cascade leaves orphaned objects for
// the sweeper rather than rows pointing at missing images.
func (c *Cascade) DeletePost(ctx context.Context, id domain.PostId, callerId domain.UserId) error {
	post, err := c.storage.GetPost(ctx, id)
	if err != nil {
		return internal_errors.Persistence("get post", err)
	}
	if post.AuthorId != callerId {
		return &internal_errors.AuthorizationError{Entity: "post", Id: id, CallerId: callerId}
	}

	comments, err := c.storage.GetComments(ctx, id)
	if err != nil {
		return internal_errors.Persistence("get comments", err)
	}

	deleteImages(ctx, c.images, c.log, domain.AllImages(comments), "post_comments", id)
	deleteImages(ctx, c.images, c.log, post.Images, "post", id)

	if err := c.storage.DeletePost(ctx, id); err != nil {
		return internal_errors.Persistence("delete post", err)
	}

	c.log.Info("post deleted", "post_id", id, "comments", len(comments))
	return nil
}
