package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/codingbrain01/MyBlog/shared/config"
	"github.com/codingbrain01/MyBlog/shared/domain"
	"github.com/codingbrain01/MyBlog/shared/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// --- Mock for PostService ---

type MockPostService struct {
	MockCreate       func(ctx context.Context, data domain.PostCreationData) (*domain.Post, error)
	MockGet          func(ctx context.Context, id domain.PostId) (*domain.Post, error)
	MockList         func(ctx context.Context, page, pageSize int) (*domain.PostPage, error)
	MockListByAuthor func(ctx context.Context, authorId domain.UserId, page, pageSize int) (*domain.PostPage, error)
	MockUpdate       func(ctx context.Context, data domain.PostUpdateData) (*domain.Post, error)
	MockDelete       func(ctx context.Context, id domain.PostId, callerId domain.UserId) error
}

func (m *MockPostService) Create(ctx context.Context, data domain.PostCreationData) (*domain.Post, error) {
	if m.MockCreate != nil {
		return m.MockCreate(ctx, data)
	}
	return &domain.Post{Id: 1}, nil
}

func (m *MockPostService) Get(ctx context.Context, id domain.PostId) (*domain.Post, error) {
	if m.MockGet != nil {
		return m.MockGet(ctx, id)
	}
	return &domain.Post{Id: id}, nil
}

func (m *MockPostService) List(ctx context.Context, page, pageSize int) (*domain.PostPage, error) {
	if m.MockList != nil {
		return m.MockList(ctx, page, pageSize)
	}
	return &domain.PostPage{}, nil
}

func (m *MockPostService) ListByAuthor(ctx context.Context, authorId domain.UserId, page, pageSize int) (*domain.PostPage, error) {
	if m.MockListByAuthor != nil {
		return m.MockListByAuthor(ctx, authorId, page, pageSize)
	}
	return &domain.PostPage{}, nil
}

func (m *MockPostService) Update(ctx context.Context, data domain.PostUpdateData) (*domain.Post, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(ctx, data)
	}
	return &domain.Post{Id: data.Id}, nil
}

func (m *MockPostService) Delete(ctx context.Context, id domain.PostId, callerId domain.UserId) error {
	if m.MockDelete != nil {
		return m.MockDelete(ctx, id, callerId)
	}
	return nil
}

// --- Mock for CommentService ---

type MockCommentService struct {
	MockCreate func(ctx context.Context, data domain.CommentCreationData) (*domain.Comment, error)
	MockList   func(ctx context.Context, postId domain.PostId) ([]*domain.Comment, error)
	MockTree   func(ctx context.Context, postId domain.PostId) ([]domain.CommentThread, error)
	MockUpdate func(ctx context.Context, data domain.CommentUpdateData) (*domain.Comment, error)
	MockDelete func(ctx context.Context, id domain.CommentId, callerId domain.UserId) error
}

func (m *MockCommentService) Create(ctx context.Context, data domain.CommentCreationData) (*domain.Comment, error) {
	if m.MockCreate != nil {
		return m.MockCreate(ctx, data)
	}
	return &domain.Comment{Id: 1, PostId: data.PostId}, nil
}

func (m *MockCommentService) List(ctx context.Context, postId domain.PostId) ([]*domain.Comment, error) {
	if m.MockList != nil {
		return m.MockList(ctx, postId)
	}
	return []*domain.Comment{}, nil
}

func (m *MockCommentService) Tree(ctx context.Context, postId domain.PostId) ([]domain.CommentThread, error) {
	if m.MockTree != nil {
		return m.MockTree(ctx, postId)
	}
	return []domain.CommentThread{}, nil
}

func (m *MockCommentService) Update(ctx context.Context, data domain.CommentUpdateData) (*domain.Comment, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(ctx, data)
	}
	return &domain.Comment{Id: data.Id}, nil
}

func (m *MockCommentService) Delete(ctx context.Context, id domain.CommentId, callerId domain.UserId) error {
	if m.MockDelete != nil {
		return m.MockDelete(ctx, id, callerId)
	}
	return nil
}

// --- Mock for HealthChecker ---

type MockHealthChecker struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// --- Helpers ---

func testConfig() *config.Config {
	return &config.Config{
		Public: config.Public{
			PostsPerPage:    10,
			MaxPostsPerPage: 50,
			Media: config.Media{
				MaxImagesPerEntity:    2,
				MaxImageSizeBytes:     1024,
				MaxTotalUploadBytes:   4096,
				AllowedImageMimeTypes: []string{"image/png", "image/jpeg"},
				MaxImageDimension:     8,
			},
		},
	}
}

// setupRouter mounts the handler on the public routes and, behind a fake
// authentication layer that trusts uid, on the mutating ones.
// uid 0 leaves the request anonymous.
func setupRouter(post *MockPostService, comment *MockCommentService, uid domain.UserId) (*Handler, *chi.Mux) {
	h := New(post, comment, testConfig(), &MockHealthChecker{})
	router := chi.NewRouter()

	router.Get("/v1/posts", h.ListPosts)
	router.Get("/v1/posts/{post}", h.GetPost)
	router.Get("/v1/users/{user}/posts", h.ListUserPosts)

	router.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if uid != 0 {
					r = r.WithContext(middleware.WithUser(r.Context(), &domain.User{Id: uid}))
				}
				next.ServeHTTP(w, r)
			})
		})
		r.Post("/v1/posts", h.CreatePost)
		r.Put("/v1/posts/{post}", h.UpdatePost)
		r.Delete("/v1/posts/{post}", h.DeletePost)
		r.Post("/v1/posts/{post}/comments", h.CreateComment)
		r.Put("/v1/comments/{comment}", h.UpdateComment)
		r.Delete("/v1/comments/{comment}", h.DeleteComment)
	})

	return h, router
}

type fileData struct {
	name    string
	content []byte
}

var pngBytes = encodePNG(2, 2)

func encodePNG(w, h int) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// multipartBody builds a form with payload in the "json" field and files under "images".
func multipartBody(t *testing.T, payload any, files ...fileData) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		require.NoError(t, mw.WriteField("json", string(data)))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile("images", f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decodeJSON[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}
