package api

import "time"

// Request DTOs. Images travel as multipart files next to the json field.

type CreatePostRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

type UpdatePostRequest struct {
	Title         string   `json:"title" validate:"required"`
	Body          string   `json:"body" validate:"required"`
	RemovedImages []string `json:"removed_images,omitempty" validate:"omitempty,dive,required"`
}

// Response DTOs

type PostResponse struct {
	Id        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	BodyHTML  string    `json:"body_html"`
	AuthorId  int64     `json:"author_id"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PostPageResponse struct {
	Posts    []PostResponse `json:"posts"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// PostWithCommentsResponse is a post page: the post and its comment tree.
type PostWithCommentsResponse struct {
	Post     PostResponse            `json:"post"`
	Comments []CommentThreadResponse `json:"comments"`
}

type CreatedResponse struct {
	Id int64 `json:"id"`
}
