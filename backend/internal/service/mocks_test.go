package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	internal_errors "github.com/codingbrain01/MyBlog/backend/internal/errors"
	"github.com/codingbrain01/MyBlog/shared/domain"
)

const testMediaPrefix = "http://media.test/blog-images/"

// --- In-memory object store ---

type memObjects struct {
	mu      sync.Mutex
	objects map[string]time.Time

	putFunc        func(key string) error
	bulkDeleteFunc func(keys []string) error
	modTimeFunc    func(key string) (time.Time, error)

	putCalls        []string
	bulkDeleteCalls [][]string
}

func newMemObjects() *memObjects {
	return &memObjects{objects: make(map[string]time.Time)}
}

func (m *memObjects) Put(ctx context.Context, key string, data io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls = append(m.putCalls, key)
	if m.putFunc != nil {
		if err := m.putFunc(key); err != nil {
			return "", err
		}
	}
	if data != nil {
		if _, err := io.Copy(io.Discard, data); err != nil {
			return "", err
		}
	}
	m.objects[key] = time.Now()
	return testMediaPrefix + key, nil
}

func (m *memObjects) BulkDelete(ctx context.Context, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bulkDeleteCalls = append(m.bulkDeleteCalls, append([]string{}, keys...))
	if m.bulkDeleteFunc != nil {
		if err := m.bulkDeleteFunc(keys); err != nil {
			return err
		}
	}
	for _, k := range keys {
		delete(m.objects, k)
	}
	return nil
}

func (m *memObjects) WalkKeys(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memObjects) ModTime(ctx context.Context, key string) (time.Time, error) {
	if m.modTimeFunc != nil {
		return m.modTimeFunc(key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.objects[key]
	if !ok {
		return time.Time{}, fmt.Errorf("no such key %s", key)
	}
	return t, nil
}

func (m *memObjects) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

func (m *memObjects) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// newTestImages returns an image store with predictable ids: img1, img2, ...
func newTestImages(objects *memObjects) *ImageStore {
	s := NewImageStore(objects, testMediaPrefix)
	n := 0
	s.newId = func() string {
		n++
		return fmt.Sprintf("img%d", n)
	}
	return s
}

func pngFile(name string) *domain.PendingFile {
	return &domain.PendingFile{
		Filename:  name,
		SizeBytes: 4,
		MimeType:  "image/png",
		Data:      strings.NewReader("\x89PNG"),
	}
}

// --- In-memory relational store ---

type memStore struct {
	mu       sync.Mutex
	nextId   int64
	posts    map[domain.PostId]*domain.Post
	comments map[domain.CommentId]*domain.Comment
	order    []domain.CommentId

	createPostErr    error
	updatePostErr    error
	deletePostErr    error
	createCommentErr error
	updateCommentErr error
	getCommentsErr   error

	writes int
}

func newMemStore() *memStore {
	return &memStore{
		posts:    make(map[domain.PostId]*domain.Post),
		comments: make(map[domain.CommentId]*domain.Comment),
	}
}

func (s *memStore) id() int64 {
	s.nextId++
	return s.nextId
}

func copyPost(p *domain.Post) *domain.Post {
	c := *p
	c.Images = append(domain.Images{}, p.Images...)
	return &c
}

func copyComment(c *domain.Comment) *domain.Comment {
	cc := *c
	cc.Images = append(domain.Images{}, c.Images...)
	return &cc
}

func (s *memStore) CreatePost(ctx context.Context, post domain.Post) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createPostErr != nil {
		return nil, s.createPostErr
	}
	s.writes++
	post.Id = s.id()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	s.posts[post.Id] = copyPost(&post)
	return copyPost(&post), nil
}

func (s *memStore) GetPost(ctx context.Context, id domain.PostId) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, &internal_errors.NotFoundError{Entity: "post", Id: id}
	}
	return copyPost(p), nil
}

func (s *memStore) UpdatePost(ctx context.Context, id domain.PostId, title domain.PostTitle, body domain.PostBody, images domain.Images) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updatePostErr != nil {
		return nil, s.updatePostErr
	}
	p, ok := s.posts[id]
	if !ok {
		return nil, &internal_errors.NotFoundError{Entity: "post", Id: id}
	}
	s.writes++
	p.Title = title
	p.Body = body
	p.Images = append(domain.Images{}, images...)
	p.UpdatedAt = time.Now()
	return copyPost(p), nil
}

func (s *memStore) DeletePost(ctx context.Context, id domain.PostId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deletePostErr != nil {
		return s.deletePostErr
	}
	if _, ok := s.posts[id]; !ok {
		return &internal_errors.NotFoundError{Entity: "post", Id: id}
	}
	s.writes++
	delete(s.posts, id)
	for cid, c := range s.comments {
		if c.PostId == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

func (s *memStore) GetPosts(ctx context.Context, offset, limit int) ([]*domain.Post, int, error) {
	return s.page(offset, limit, func(*domain.Post) bool { return true })
}

func (s *memStore) GetPostsByAuthor(ctx context.Context, authorId domain.UserId, offset, limit int) ([]*domain.Post, int, error) {
	return s.page(offset, limit, func(p *domain.Post) bool { return p.AuthorId == authorId })
}

func (s *memStore) page(offset, limit int, keep func(*domain.Post) bool) ([]*domain.Post, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*domain.Post
	for _, p := range s.posts {
		if keep(p) {
			all = append(all, copyPost(p))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Id > all[j].Id })
	total := len(all)
	if offset >= total {
		return []*domain.Post{}, total, nil
	}
	end := min(offset+limit, total)
	return all[offset:end], total, nil
}

func (s *memStore) CreateComment(ctx context.Context, comment domain.Comment) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createCommentErr != nil {
		return nil, s.createCommentErr
	}
	if _, ok := s.posts[comment.PostId]; !ok {
		return nil, &internal_errors.NotFoundError{Entity: "post", Id: comment.PostId}
	}
	s.writes++
	comment.Id = s.id()
	comment.CreatedAt = time.Now()
	s.comments[comment.Id] = copyComment(&comment)
	s.order = append(s.order, comment.Id)
	return copyComment(&comment), nil
}

func (s *memStore) GetComment(ctx context.Context, id domain.CommentId) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, &internal_errors.NotFoundError{Entity: "comment", Id: id}
	}
	return copyComment(c), nil
}

func (s *memStore) GetComments(ctx context.Context, postId domain.PostId) ([]*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getCommentsErr != nil {
		return nil, s.getCommentsErr
	}
	comments := []*domain.Comment{}
	for _, id := range s.order {
		if c, ok := s.comments[id]; ok && c.PostId == postId {
			comments = append(comments, copyComment(c))
		}
	}
	return comments, nil
}

func (s *memStore) UpdateComment(ctx context.Context, id domain.CommentId, content domain.CommentContent, images domain.Images) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateCommentErr != nil {
		return nil, s.updateCommentErr
	}
	c, ok := s.comments[id]
	if !ok {
		return nil, &internal_errors.NotFoundError{Entity: "comment", Id: id}
	}
	s.writes++
	c.Content = content
	c.Images = append(domain.Images{}, images...)
	return copyComment(c), nil
}

func (s *memStore) DeleteComment(ctx context.Context, id domain.CommentId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return &internal_errors.NotFoundError{Entity: "comment", Id: id}
	}
	s.writes++
	delete(s.comments, id)
	for cid, c := range s.comments {
		if c.ParentId != nil && *c.ParentId == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

func (s *memStore) GetAllImageRefs(ctx context.Context) ([]domain.ImageRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var refs []domain.ImageRef
	for _, p := range s.posts {
		refs = append(refs, p.Images...)
	}
	for _, c := range s.comments {
		refs = append(refs, c.Images...)
	}
	return refs, nil
}

func (s *memStore) commentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.comments)
}

// --- Validators ---

type MockPostValidator struct {
	TitleFunc func(title domain.PostTitle) error
	BodyFunc  func(body domain.PostBody) error
}

func (m *MockPostValidator) Title(title domain.PostTitle) error {
	if m.TitleFunc != nil {
		return m.TitleFunc(title)
	}
	return nil
}

func (m *MockPostValidator) Body(body domain.PostBody) error {
	if m.BodyFunc != nil {
		return m.BodyFunc(body)
	}
	return nil
}

type MockCommentValidator struct {
	ContentFunc func(content domain.CommentContent) error
}

func (m *MockCommentValidator) Content(content domain.CommentContent) error {
	if m.ContentFunc != nil {
		return m.ContentFunc(content)
	}
	return nil
}

// --- Fixture ---

type fixture struct {
	store    *memStore
	objects  *memObjects
	images   *ImageStore
	posts    *Post
	comments *Comment
	postV    *MockPostValidator
	commentV *MockCommentValidator
}

func newFixture(maxImages int) *fixture {
	f := &fixture{
		store:    newMemStore(),
		objects:  newMemObjects(),
		postV:    &MockPostValidator{},
		commentV: &MockCommentValidator{},
	}
	f.images = newTestImages(f.objects)
	f.posts = NewPost(f.store, f.images, NewCascade(f.store, f.images), f.postV, maxImages)
	f.comments = NewComment(f.store, f.store, f.images, f.commentV, maxImages)
	return f
}

func key(ref domain.ImageRef) string {
	return strings.TrimPrefix(ref, testMediaPrefix)
}
