package service

import (
	"context"
	"log/slog"

	internal_errors "github.com/codingbrain01/MyBlog/backend/internal/errors"
	"github.com/codingbrain01/MyBlog/shared/domain"
	"github.com/codingbrain01/MyBlog/shared/logger"
)

type PostService interface {
	Create(ctx context.Context, data domain.PostCreationData) (*domain.Post, error)
	Get(ctx context.Context, id domain.PostId) (*domain.Post, error)
	List(ctx context.Context, page, pageSize int) (*domain.PostPage, error)
	ListByAuthor(ctx context.Context, authorId domain.UserId, page, pageSize int) (*domain.PostPage, error)
	Update(ctx context.Context, data domain.PostUpdateData) (*domain.Post, error)
	Delete(ctx context.Context, id domain.PostId, callerId domain.UserId) error
}

type PostStorage interface {
	CreatePost(ctx context.Context, post domain.Post) (*domain.Post, error)
	GetPost(ctx context.Context, id domain.PostId) (*domain.Post, error)
	// UpdatePost overwrites title, body and images and bumps updated_at.
	UpdatePost(ctx context.Context, id domain.PostId, title domain.PostTitle, body domain.PostBody, images domain.Images) (*domain.Post, error)
	// DeletePost removes the post row together with all of its comment rows.
	DeletePost(ctx context.Context, id domain.PostId) error
	// GetPosts returns a page of posts, newest first, and the total count.
	GetPosts(ctx context.Context, offset, limit int) ([]*domain.Post, int, error)
	GetPostsByAuthor(ctx context.Context, authorId domain.UserId, offset, limit int) ([]*domain.Post, int, error)
}

type PostValidator interface {
	Title(title domain.PostTitle) error
	Body(body domain.PostBody) error
}

type Post struct {
	storage   PostStorage
	images    ImageService
	cascade   *Cascade
	validator PostValidator
	maxImages int
	log       *slog.Logger
}

var _ PostService = (*Post)(nil)

func NewPost(storage PostStorage, images ImageService, cascade *Cascade, validator PostValidator, maxImages int) *Post {
	return &Post{
		storage:   storage,
		images:    images,
		cascade:   cascade,
		validator: validator,
		maxImages: maxImages,
		log:       logger.Component("post_service"),
	}
}

func (s *Post) validate(title domain.PostTitle, body domain.PostBody) error {
	if err := s.validator.Title(title); err != nil {
		return err
	}
	return s.validator.Body(body)
}

// Create uploads the files under the author's namespace and inserts the post.
// Nothing is uploaded for invalid input.
func (s *Post) Create(ctx context.Context, data domain.PostCreationData) (*domain.Post, error) {
	if err := s.validate(data.Title, data.Body); err != nil {
		return nil, err
	}
	if err := checkImageCount(len(data.Files), s.maxImages); err != nil {
		return nil, err
	}

	refs, err := uploadImages(ctx, s.images, s.log, data.Files, data.AuthorId)
	if err != nil {
		return nil, err
	}

	post, err := s.storage.CreatePost(ctx, domain.Post{
		Title:    data.Title,
		Body:     data.Body,
		AuthorId: data.AuthorId,
		Images:   refs,
	})
	if err != nil {
		reportOrphans(s.log, "persist_failed", refs)
		return nil, internal_errors.Persistence("create post", err)
	}

	s.log.Info("post created", "post_id", post.Id, "author_id", post.AuthorId, "images", len(post.Images))
	return post, nil
}

func (s *Post) Get(ctx context.Context, id domain.PostId) (*domain.Post, error) {
	post, err := s.storage.GetPost(ctx, id)
	if err != nil {
		return nil, internal_errors.Persistence("get post", err)
	}
	return post, nil
}

func (s *Post) List(ctx context.Context, page, pageSize int) (*domain.PostPage, error) {
	offset, limit, err := pageBounds(page, pageSize)
	if err != nil {
		return nil, err
	}
	posts, total, err := s.storage.GetPosts(ctx, offset, limit)
	if err != nil {
		return nil, internal_errors.Persistence("list posts", err)
	}
	return &domain.PostPage{Posts: posts, Total: total}, nil
}

func (s *Post) ListByAuthor(ctx context.Context, authorId domain.UserId, page, pageSize int) (*domain.PostPage, error) {
	offset, limit, err := pageBounds(page, pageSize)
	if err != nil {
		return nil, err
	}
	posts, total, err := s.storage.GetPostsByAuthor(ctx, authorId, offset, limit)
	if err != nil {
		return nil, internal_errors.Persistence("list posts by author", err)
	}
	return &domain.PostPage{Posts: posts, Total: total}, nil
}

// Update applies one edit: new title and body, removal of some attached images
// and upload of new ones. The row is saved before removed images are deleted,
// so a failed save never leaves the post pointing at deleted objects.
func (s *Post) Update(ctx context.Context, data domain.PostUpdateData) (*domain.Post, error) {
	if err := s.validate(data.Title, data.Body); err != nil {
		return nil, err
	}

	post, err := s.storage.GetPost(ctx, data.Id)
	if err != nil {
		return nil, internal_errors.Persistence("get post", err)
	}
	if post.AuthorId != data.CallerId {
		return nil, &internal_errors.AuthorizationError{Entity: "post", Id: post.Id, CallerId: data.CallerId}
	}

	removed, err := checkRemoved(post.Images, data.RemovedImages)
	if err != nil {
		return nil, err
	}
	if err := checkImageCount(len(post.Images)-len(removed)+len(data.Files), s.maxImages); err != nil {
		return nil, err
	}

	uploaded, err := uploadImages(ctx, s.images, s.log, data.Files, post.AuthorId)
	if err != nil {
		return nil, err
	}

	final, toDelete := Reconcile(post.Images, removed, uploaded)

	updated, err := s.storage.UpdatePost(ctx, post.Id, data.Title, data.Body, final)
	if err != nil {
		reportOrphans(s.log, "persist_failed", uploaded)
		return nil, internal_errors.Persistence("update post", err)
	}

	deleteImages(ctx, s.images, s.log, toDelete, "post", post.Id)

	s.log.Info("post updated", "post_id", post.Id, "added", len(uploaded), "removed", len(toDelete))
	return updated, nil
}

// Delete removes the post, every comment on it and all of their images.
func (s *Post) Delete(ctx context.Context, id domain.PostId, callerId domain.UserId) error {
	return s.cascade.DeletePost(ctx, id, callerId)
}

func pageBounds(page, pageSize int) (offset, limit int, err error) {
	if page < 1 {
		return 0, 0, &internal_errors.ValidationError{Message: "page must be positive"}
	}
	if pageSize < 1 {
		return 0, 0, &internal_errors.ValidationError{Message: "page size must be positive"}
	}
	return (page - 1) * pageSize, pageSize, nil
}
