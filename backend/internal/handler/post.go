package handler

import (
	"net/http"

	"github.com/codingbrain01/MyBlog/shared/api"
	"github.com/codingbrain01/MyBlog/shared/domain"
	"github.com/codingbrain01/MyBlog/shared/utils"
)

func (h *Handler) toPostResponse(p *domain.Post) api.PostResponse {
	return api.PostResponse{
		Id:        p.Id,
		Title:     p.Title,
		Body:      p.Body,
		BodyHTML:  h.markup.Render(p.Body),
		AuthorId:  p.AuthorId,
		Images:    append([]string{}, p.Images...),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// pagination reads page and page_size, capping page_size at the configured maximum.
func (h *Handler) pagination(r *http.Request) (page, pageSize int, err error) {
	if page, err = parseIntQuery(r, "page", 1); err != nil {
		return
	}
	if pageSize, err = parseIntQuery(r, "page_size", h.cfg.Public.PostsPerPage); err != nil {
		return
	}
	if limit := h.cfg.Public.MaxPostsPerPage; limit > 0 && pageSize > limit {
		pageSize = limit
	}
	return
}

func (h *Handler) writePostPage(w http.ResponseWriter, page *domain.PostPage, pageNum, pageSize int) {
	resp := api.PostPageResponse{
		Posts:    make([]api.PostResponse, 0, len(page.Posts)),
		Total:    page.Total,
		Page:     pageNum,
		PageSize: pageSize,
	}
	for _, p := range page.Posts {
		resp.Posts = append(resp.Posts, h.toPostResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	pageNum, pageSize, err := h.pagination(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	page, err := h.post.List(r.Context(), pageNum, pageSize)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	h.writePostPage(w, page, pageNum, pageSize)
}

func (h *Handler) ListUserPosts(w http.ResponseWriter, r *http.Request) {
	userId, err := parseIdParam(r, "user")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	pageNum, pageSize, err := h.pagination(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	page, err := h.post.ListByAuthor(r.Context(), userId, pageNum, pageSize)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	h.writePostPage(w, page, pageNum, pageSize)
}

// GetPost returns the post together with its comment tree.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	postId, err := parseIdParam(r, "post")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.post.Get(r.Context(), postId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	tree, err := h.comment.Tree(r.Context(), postId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.PostWithCommentsResponse{
		Post:     h.toPostResponse(post),
		Comments: h.toThreadResponses(tree),
	})
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, err := callerFromRequest(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	body, files, cleanup, err := parseRequest[api.CreatePostRequest](w, r, h)
	defer cleanup()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.post.Create(r.Context(), domain.PostCreationData{
		Title:    body.Title,
		Body:     body.Body,
		AuthorId: user.Id,
		Files:    files,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.CreatedResponse{Id: post.Id})
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	user, err := callerFromRequest(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	postId, err := parseIdParam(r, "post")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	body, files, cleanup, err := parseRequest[api.UpdatePostRequest](w, r, h)
	defer cleanup()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.post.Update(r.Context(), domain.PostUpdateData{
		Id:            postId,
		Title:         body.Title,
		Body:          body.Body,
		RemovedImages: body.RemovedImages,
		Files:         files,
		CallerId:      user.Id,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toPostResponse(post))
}

// DeletePost removes the post, its comments and every image they reference.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	user, err := callerFromRequest(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	postId, err := parseIdParam(r, "post")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.post.Delete(r.Context(), postId, user.Id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
