package service

import (
	"context"
	"log/slog"

	internal_errors "github.com/codingbrain01/MyBlog/backend/internal/errors"
	"github.com/codingbrain01/MyBlog/shared/domain"
	"github.com/codingbrain01/MyBlog/shared/logger"
)

type CommentService interface {
	Create(ctx context.Context, data domain.CommentCreationData) (*domain.Comment, error)
	List(ctx context.Context, postId domain.PostId) ([]*domain.Comment, error)
	Tree(ctx context.Context, postId domain.PostId) ([]domain.CommentThread, error)
	Update(ctx context.Context, data domain.CommentUpdateData) (*domain.Comment, error)
	Delete(ctx context.Context, id domain.CommentId, callerId domain.UserId) error
}

type CommentStorage interface {
	CreateComment(ctx context.Context, comment domain.Comment) (*domain.Comment, error)
	GetComment(ctx context.Context, id domain.CommentId) (*domain.Comment, error)
	// GetComments returns every comment and reply of a post ordered by creation time.
	GetComments(ctx context.Context, postId domain.PostId) ([]*domain.Comment, error)
	UpdateComment(ctx context.Context, id domain.CommentId, content domain.CommentContent, images domain.Images) (*domain.Comment, error)
	// DeleteComment removes the comment row and the rows of its replies.
	DeleteComment(ctx context.Context, id domain.CommentId) error
}

type CommentValidator interface {
	Content(content domain.CommentContent) error
}

// PostGetter resolves the post a new comment is attached to.
type PostGetter interface {
	GetPost(ctx context.Context, id domain.PostId) (*domain.Post, error)
}

type Comment struct {
	storage   CommentStorage
	posts     PostGetter
	images    ImageService
	validator CommentValidator
	maxImages int
	log       *slog.Logger
}

var _ CommentService = (*Comment)(nil)

func NewComment(storage CommentStorage, posts PostGetter, images ImageService, validator CommentValidator, maxImages int) *Comment {
	return &Comment{
		storage:   storage,
		posts:     posts,
		images:    images,
		validator: validator,
		maxImages: maxImages,
		log:       logger.Component("comment_service"),
	}
}

func (s *Comment) Create(ctx context.Context, data domain.CommentCreationData) (*domain.Comment, error) {
	if err := s.validator.Content(data.Content); err != nil {
		return nil, err
	}
	if err := checkImageCount(len(data.Files), s.maxImages); err != nil {
		return nil, err
	}

	if data.ParentId != nil {
		if err := s.checkParent(ctx, data.PostId, *data.ParentId); err != nil {
			return nil, err
		}
	} else if _, err := s.posts.GetPost(ctx, data.PostId); err != nil {
		return nil, internal_errors.Persistence("get post", err)
	}

	refs, err := uploadImages(ctx, s.images, s.log, data.Files, data.AuthorId)
	if err != nil {
		return nil, err
	}

	comment, err := s.storage.CreateComment(ctx, domain.Comment{
		PostId:   data.PostId,
		AuthorId: data.AuthorId,
		ParentId: data.ParentId,
		Content:  data.Content,
		Images:   refs,
	})
	if err != nil {
		reportOrphans(s.log, "persist_failed", refs)
		return nil, internal_errors.Persistence("create comment", err)
	}

	s.log.Info("comment created", "comment_id", comment.Id, "post_id", comment.PostId, "images", len(comment.Images))
	return comment, nil
}

// checkParent allows replies only to top-level comments of the same post.
func (s *Comment) checkParent(ctx context.Context, postId domain.PostId, parentId domain.CommentId) error {
	parent, err := s.storage.GetComment(ctx, parentId)
	if err != nil {
		if internal_errors.Is[*internal_errors.NotFoundError](err) {
			return &internal_errors.InvalidParentError{ParentId: parentId, Reason: "comment does not exist"}
		}
		return internal_errors.Persistence("get parent comment", err)
	}
	if parent.PostId != postId {
		return &internal_errors.InvalidParentError{ParentId: parentId, Reason: "comment belongs to another post"}
	}
	if !parent.IsTopLevel() {
		return &internal_errors.InvalidParentError{ParentId: parentId, Reason: "replies to replies are not allowed"}
	}
	return nil
}

func (s *Comment) List(ctx context.Context, postId domain.PostId) ([]*domain.Comment, error) {
	comments, err := s.storage.GetComments(ctx, postId)
	if err != nil {
		return nil, internal_errors.Persistence("get comments", err)
	}
	return comments, nil
}

func (s *Comment) Tree(ctx context.Context, postId domain.PostId) ([]domain.CommentThread, error) {
	comments, err := s.List(ctx, postId)
	if err != nil {
		return nil, err
	}
	return AssembleTree(comments), nil
}

// Update follows the same reconcile, save, then delete order as Post.Update.
func (s *Comment) Update(ctx context.Context, data domain.CommentUpdateData) (*domain.Comment, error) {
	if err := s.validator.Content(data.Content); err != nil {
		return nil, err
	}

	comment, err := s.storage.GetComment(ctx, data.Id)
	if err != nil {
		return nil, internal_errors.Persistence("get comment", err)
	}
	if comment.AuthorId != data.CallerId {
		return nil, &internal_errors.AuthorizationError{Entity: "comment", Id: comment.Id, CallerId: data.CallerId}
	}

	removed, err := checkRemoved(comment.Images, data.RemovedImages)
	if err != nil {
		return nil, err
	}
	if err := checkImageCount(len(comment.Images)-len(removed)+len(data.Files), s.maxImages); err != nil {
		return nil, err
	}

	uploaded, err := uploadImages(ctx, s.images, s.log, data.Files, comment.AuthorId)
	if err != nil {
		return nil, err
	}

	final, toDelete := Reconcile(comment.Images, removed, uploaded)

	updated, err := s.storage.UpdateComment(ctx, comment.Id, data.Content, final)
	if err != nil {
		reportOrphans(s.log, "persist_failed", uploaded)
		return nil, internal_errors.Persistence("update comment", err)
	}

	deleteImages(ctx, s.images, s.log, toDelete, "comment", comment.Id)

	s.log.Info("comment updated", "comment_id", comment.Id, "added", len(uploaded), "removed", len(toDelete))
	return updated, nil
}

// Delete removes a comment and its images. Deleting a top-level comment also
// removes its replies and their images.
func (s *Comment) Delete(ctx context.Context, id domain.CommentId, callerId domain.UserId) error {
	comment, err := s.storage.GetComment(ctx, id)
	if err != nil {
		return internal_errors.Persistence("get comment", err)
	}
	if comment.AuthorId != callerId {
		return &internal_errors.AuthorizationError{Entity: "comment", Id: id, CallerId: callerId}
	}

	refs := append([]domain.ImageRef{}, comment.Images...)
	replies := 0
	if comment.IsTopLevel() {
		all, err := s.storage.GetComments(ctx, comment.PostId)
		if err != nil {
			return internal_errors.Persistence("get replies", err)
		}
		for _, c := range all {
			if c.ParentId != nil && *c.ParentId == id {
				refs = append(refs, c.Images...)
				replies++
			}
		}
	}

	deleteImages(ctx, s.images, s.log, refs, "comment", id)

	if err := s.storage.DeleteComment(ctx, id); err != nil {
		return internal_errors.Persistence("delete comment", err)
	}

	s.log.Info("comment deleted", "comment_id", id, "replies", replies)
	return nil
}
