package api

import "time"

// Request DTOs

type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required"`
	ParentId *int64 `json:"parent_id,omitempty"`
}

type UpdateCommentRequest struct {
	Content       string   `json:"content" validate:"required"`
	RemovedImages []string `json:"removed_images,omitempty" validate:"omitempty,dive,required"`
}

// Response DTOs

type CommentResponse struct {
	Id          int64     `json:"id"`
	PostId      int64     `json:"post_id"`
	AuthorId    int64     `json:"author_id"`
	ParentId    *int64    `json:"parent_id,omitempty"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
}

type CommentThreadResponse struct {
	CommentResponse
	Replies []CommentResponse `json:"replies"`
}
