package pg

import (
	"context"
	"database/sql"
	"errors"

	internal_errors "github.com/codingbrain01/MyBlog/backend/internal/errors"
	"github.com/codingbrain01/MyBlog/backend/internal/service"
	"github.com/codingbrain01/MyBlog/shared/domain"
	sharedpg "github.com/codingbrain01/MyBlog/shared/storage/pg"
)

var _ service.CommentStorage = (*Storage)(nil)

const commentColumns = `id, post_id, parent_id, author_id, content, images, created_at`

func scanComment(row interface{ Scan(...any) error }) (*domain.Comment, error) {
	var (
		c        domain.Comment
		parentId sql.NullInt64
	)
	if err := row.Scan(&c.Id, &c.PostId, &parentId, &c.AuthorId, &c.Content, &c.Images, &c.CreatedAt); err != nil {
		return nil, err
	}
	if parentId.Valid {
		c.ParentId = &parentId.Int64
	}
	if c.Images == nil {
		c.Images = domain.Images{}
	}
	return &c, nil
}

// CreateComment inserts a comment. A missing post is reported as NotFoundError.
// Threading rules are checked by the service, not here.
func (s *Storage) CreateComment(ctx context.Context, comment domain.Comment) (*domain.Comment, error) {
	images := comment.Images
	if images == nil {
		images = domain.Images{}
	}
	created, err := scanComment(s.db.QueryRowContext(ctx, `
	INSERT INTO comments (post_id, parent_id, author_id, content, images)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING `+commentColumns,
		comment.PostId, comment.ParentId, comment.AuthorId, comment.Content, images))
	if err != nil {
		if sharedpg.HasCode(err, sharedpg.CodeForeignKeyViolation) {
			return nil, &internal_errors.NotFoundError{Entity: "post", Id: comment.PostId}
		}
		return nil, err
	}
	return created, nil
}

func (s *Storage) GetComment(ctx context.Context, id domain.CommentId) (*domain.Comment, error) {
	comment, err := scanComment(s.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &internal_errors.NotFoundError{Entity: "comment", Id: id}
		}
		return nil, err
	}
	return comment, nil
}

func (s *Storage) GetComments(ctx context.Context, postId domain.PostId) ([]*domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT `+commentColumns+`
	FROM comments
	WHERE post_id = $1
	ORDER BY created_at, id`, postId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*domain.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *Storage) UpdateComment(ctx context.Context, id domain.CommentId, content domain.CommentContent, images domain.Images) (*domain.Comment, error) {
	if images == nil {
		images = domain.Images{}
	}
	comment, err := scanComment(s.db.QueryRowContext(ctx, `
	UPDATE comments
	SET content = $1, images = $2
	WHERE id = $3
	RETURNING `+commentColumns,
		content, images, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &internal_errors.NotFoundError{Entity: "comment", Id: id}
		}
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes the comment and its replies.
func (s *Storage) DeleteComment(ctx context.Context, id domain.CommentId) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1 OR parent_id = $1`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &internal_errors.NotFoundError{Entity: "comment", Id: id}
	}
	return nil
}
