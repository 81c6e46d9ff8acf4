package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	internal_errors "github.com/codingbrain01/MyBlog/backend/internal/errors"
	"github.com/codingbrain01/MyBlog/shared/api"
	"github.com/codingbrain01/MyBlog/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPosts(t *testing.T) {
	t.Run("defaults and rendering", func(t *testing.T) {
		created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		mockService := &MockPostService{
			MockList: func(ctx context.Context, page, pageSize int) (*domain.PostPage, error) {
				assert.Equal(t, 1, page)
				assert.Equal(t, 10, pageSize)
				return &domain.PostPage{
					Posts: []*domain.Post{{Id: 3, Title: "t", Body: "**bold**", AuthorId: 7, CreatedAt: created}},
					Total: 21,
				}, nil
			},
		}
		_, router := setupRouter(mockService, &MockCommentService{}, 0)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/posts", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeJSON[api.PostPageResponse](t, rr.Body.Bytes())
		assert.Equal(t, 21, resp.Total)
		require.Len(t, resp.Posts, 1)
		assert.Equal(t, "<p><strong>bold</strong></p>", resp.Posts[0].BodyHTML)
		assert.NotNil(t, resp.Posts[0].Images, "images is always a list")
		assert.True(t, created.Equal(resp.Posts[0].CreatedAt))
	})

	t.Run("page size is capped", func(t *testing.T) {
		mockService := &MockPostService{
			MockList: func(ctx context.Context, page, pageSize int) (*domain.PostPage, error) {
				assert.Equal(t, 3, page)
				assert.Equal(t, 50, pageSize)
				return &domain.PostPage{}, nil
			},
		}
		_, router := setupRouter(mockService, &MockCommentService{}, 0)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/posts?page=3&page_size=1000", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decodeJSON[api.PostPageResponse](t, rr.Body.Bytes())
		assert.Equal(t, 50, resp.PageSize)
		assert.NotNil(t, resp.Posts)
	})

	t.Run("bad query", func(t *testing.T) {
		_, router := setupRouter(&MockPostService{}, &MockCommentService{}, 0)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/posts?page=abc", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("service validation error", func(t *testing.T) {
		mockService := &MockPostService{
			MockList: func(ctx context.Context, page, pageSize int) (*domain.PostPage, error) {
				return nil, &internal_errors.ValidationError{Message: "page must be positive"}
			},
		}
		_, router := setupRouter(mockService, &MockCommentService{}, 0)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/posts?page=0", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListUserPosts(t *testing.T) {
	var gotAuthor domain.UserId
	mockService := &MockPostService{
		MockListByAuthor: func(ctx context.Context, authorId domain.UserId, page, pageSize int) (*domain.PostPage, error) {
			gotAuthor = authorId
			return &domain.PostPage{Posts: []*domain.Post{{Id: 1, AuthorId: authorId}}, Total: 1}, nil
		},
	}
	_, router := setupRouter(mockService, &MockCommentService{}, 0)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/users/42/posts", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.UserId(42), gotAuthor)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/users/abc/posts", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetPost(t *testing.T) {
	t.Run("post with comment tree", func(t *testing.T) {
		parent := domain.CommentId(10)
		postService := &MockPostService{
			MockGet: func(ctx context.Context, id domain.PostId) (*domain.Post, error) {
				return &domain.Post{Id: id, Title: "t", Body: "b", Images: domain.Images{"http://h/blog-images/1/a.png"}}, nil
			},
		}
		commentService := &MockCommentService{
			MockTree: func(ctx context.Context, postId domain.PostId) ([]domain.CommentThread, error) {
				assert.Equal(t, domain.PostId(5), postId)
				return []domain.CommentThread{
					{
						Comment: &domain.Comment{Id: 10, PostId: 5, Content: "top"},
						Replies: []*domain.Comment{{Id: 11, PostId: 5, ParentId: &parent, Content: "reply"}},
					},
					{Comment: &domain.Comment{Id: 12, PostId: 5, Content: "second"}},
				}, nil
			},
		}
		_, router := setupRouter(postService, commentService, 0)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/posts/5", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeJSON[api.PostWithCommentsResponse](t, rr.Body.Bytes())
		assert.Equal(t, int64(5), resp.Post.Id)
		assert.Equal(t, []string{"http://h/blog-images/1/a.png"}, resp.Post.Images)
		require.Len(t, resp.Comments, 2)
		assert.Equal(t, int64(10), resp.Comments[0].Id)
		require.Len(t, resp.Comments[0].Replies, 1)
		assert.Equal(t, int64(11), resp.Comments[0].Replies[0].Id)
		require.NotNil(t, resp.Comments[0].Replies[0].ParentId)
		assert.Equal(t, int64(10), *resp.Comments[0].Replies[0].ParentId)
		assert.NotNil(t, resp.Comments[1].Replies)
		assert.Empty(t, resp.Comments[1].Replies)
	})

	t.Run("not found", func(t *testing.T) {
		postService := &MockPostService{
			MockGet: func(ctx context.Context, id domain.PostId) (*domain.Post, error) {
				return nil, &internal_errors.NotFoundError{Entity: "post", Id: id}
			},
		}
		_, router := setupRouter(postService, &MockCommentService{}, 0)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/posts/5", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, router := setupRouter(&MockPostService{}, &MockCommentService{}, 0)
		for _, id := range []string{"abc", "0", "-1"} {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/posts/"+id, nil))
			assert.Equal(t, http.StatusBadRequest, rr.Code, id)
		}
	})
}

func TestCreatePost(t *testing.T) {
	t.Run("multipart request", func(t *testing.T) {
		var got domain.PostCreationData
		mockService := &MockPostService{
			MockCreate: func(ctx context.Context, data domain.PostCreationData) (*domain.Post, error) {
				got = data
				return &domain.Post{Id: 77}, nil
			},
		}
		_, router := setupRouter(mockService, &MockCommentService{}, 123)
		body, contentType := multipartBody(t, api.CreatePostRequest{Title: "title", Body: "body"}, fileData{name: "a.png", content: pngBytes})
		req := httptest.NewRequest(http.MethodPost, "/v1/posts", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, int64(77), decodeJSON[api.CreatedResponse](t, rr.Body.Bytes()).Id)
		assert.Equal(t, "title", got.Title)
		assert.Equal(t, domain.UserId(123), got.AuthorId)
		require.Len(t, got.Files, 1)
		assert.Equal(t, "image/png", got.Files[0].MimeType)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		called := false
		mockService := &MockPostService{
			MockCreate: func(ctx context.Context, data domain.PostCreationData) (*domain.Post, error) {
				called = true
				return nil, nil
			},
		}
		_, router := setupRouter(mockService, &MockCommentService{}, 0)
		req := httptest.NewRequest(http.MethodPost, "/v1/posts", strings.NewReader(`{"title":"t","body":"b"}`))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, called)
	})

	errorTests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &internal_errors.ValidationError{Message: "Title is empty"}, http.StatusBadRequest},
		{"upload", &internal_errors.UploadError{Filename: "a.png", Err: errors.New("bucket down")}, http.StatusBadGateway},
		{"persistence", internal_errors.Persistence("create post", errors.New("connection reset")), http.StatusInternalServerError},
		{"untyped", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range errorTests {
		t.Run(tt.name+" error", func(t *testing.T) {
			mockService := &MockPostService{
				MockCreate: func(ctx context.Context, data domain.PostCreationData) (*domain.Post, error) {
					return nil, tt.err
				},
			}
			_, router := setupRouter(mockService, &MockCommentService{}, 1)
			req := httptest.NewRequest(http.MethodPost, "/v1/posts", strings.NewReader(`{"title":"t","body":"b"}`))
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, rr.Body.String(), "connection reset", "internal details stay in the log")
			}
		})
	}
}

func TestUpdatePost(t *testing.T) {
	t.Run("passes removed images and caller", func(t *testing.T) {
		var got domain.PostUpdateData
		mockService := &MockPostService{
			MockUpdate: func(ctx context.Context, data domain.PostUpdateData) (*domain.Post, error) {
				got = data
				return &domain.Post{Id: data.Id, Title: data.Title, Images: domain.Images{}}, nil
			},
		}
		_, router := setupRouter(mockService, &MockCommentService{}, 9)
		body, contentType := multipartBody(t, api.UpdatePostRequest{
			Title:         "new",
			Body:          "b",
			RemovedImages: []string{"http://h/blog-images/9/a.png"},
		})
		req := httptest.NewRequest(http.MethodPut, "/v1/posts/4", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, domain.PostId(4), got.Id)
		assert.Equal(t, domain.UserId(9), got.CallerId)
		assert.Equal(t, []domain.ImageRef{"http://h/blog-images/9/a.png"}, got.RemovedImages)
		assert.Empty(t, got.Files)
		resp := decodeJSON[api.PostResponse](t, rr.Body.Bytes())
		assert.Equal(t, "new", resp.Title)
	})

	t.Run("non author", func(t *testing.T) {
		mockService := &MockPostService{
			MockUpdate: func(ctx context.Context, data domain.PostUpdateData) (*domain.Post, error) {
				return nil, &internal_errors.AuthorizationError{Entity: "post", Id: data.Id, CallerId: data.CallerId}
			},
		}
		_, router := setupRouter(mockService, &MockCommentService{}, 9)
		req := httptest.NewRequest(http.MethodPut, "/v1/posts/4", strings.NewReader(`{"title":"t","body":"b"}`))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestDeletePost(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotId domain.PostId
		var gotCaller domain.UserId
		mockService := &MockPostService{
			MockDelete: func(ctx context.Context, id domain.PostId, callerId domain.UserId) error {
				gotId, gotCaller = id, callerId
				return nil
			},
		}
		_, router := setupRouter(mockService, &MockCommentService{}, 3)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/v1/posts/8", nil))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, domain.PostId(8), gotId)
		assert.Equal(t, domain.UserId(3), gotCaller)
	})

	t.Run("not found", func(t *testing.T) {
		mockService := &MockPostService{
			MockDelete: func(ctx context.Context, id domain.PostId, callerId domain.UserId) error {
				return &internal_errors.NotFoundError{Entity: "post", Id: id}
			},
		}
		_, router := setupRouter(mockService, &MockCommentService{}, 3)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/v1/posts/8", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
