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

var (
	_ service.PostStorage    = (*Storage)(nil)
	_ service.CascadeStorage = (*Storage)(nil)
)

const postColumns = `id, title, body, author_id, images, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*domain.Post, error) {
	var p domain.Post
	if err := row.Scan(&p.Id, &p.Title, &p.Body, &p.AuthorId, &p.Images, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if p.Images == nil {
		p.Images = domain.Images{}
	}
	return &p, nil
}

func (s *Storage) CreatePost(ctx context.Context, post domain.Post) (*domain.Post, error) {
	images := post.Images
	if images == nil {
		images = domain.Images{}
	}
	created, err := scanPost(s.db.QueryRowContext(ctx, `
	INSERT INTO posts (title, body, author_id, images)
	VALUES ($1, $2, $3, $4)
	RETURNING `+postColumns,
		post.Title, post.Body, post.AuthorId, images))
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Storage) GetPost(ctx context.Context, id domain.PostId) (*domain.Post, error) {
	post, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &internal_errors.NotFoundError{Entity: "post", Id: id}
		}
		return nil, err
	}
	return post, nil
}

func (s *Storage) UpdatePost(ctx context.Context, id domain.PostId, title domain.PostTitle, body domain.PostBody, images domain.Images) (*domain.Post, error) {
	if images == nil {
		images = domain.Images{}
	}
	post, err := scanPost(s.db.QueryRowContext(ctx, `
	UPDATE posts
	SET title = $1, body = $2, images = $3, updated_at = now()
	WHERE id = $4
	RETURNING `+postColumns,
		title, body, images, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &internal_errors.NotFoundError{Entity: "post", Id: id}
		}
		return nil, err
	}
	return post, nil
}

// DeletePost removes the post and all of its comments in one transaction.
func (s *Storage) DeletePost(ctx context.Context, id domain.PostId) error {
	return sharedpg.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = $1`, id); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return &internal_errors.NotFoundError{Entity: "post", Id: id}
		}
		return nil
	})
}

func (s *Storage) GetPosts(ctx context.Context, offset, limit int) ([]*domain.Post, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, err
	}
	posts, err := s.queryPosts(ctx, `
	SELECT `+postColumns+`
	FROM posts
	ORDER BY created_at DESC, id DESC
	OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *Storage) GetPostsByAuthor(ctx context.Context, authorId domain.UserId, offset, limit int) ([]*domain.Post, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM posts WHERE author_id = $1`, authorId).Scan(&total); err != nil {
		return nil, 0, err
	}
	posts, err := s.queryPosts(ctx, `
	SELECT `+postColumns+`
	FROM posts
	WHERE author_id = $1
	ORDER BY created_at DESC, id DESC
	OFFSET $2 LIMIT $3`, authorId, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *Storage) queryPosts(ctx context.Context, query string, args ...any) ([]*domain.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}
