package handler

import (
	"net/http"

	"github.com/codingbrain01/MyBlog/shared/api"
	"github.com/codingbrain01/MyBlog/shared/domain"
	"github.com/codingbrain01/MyBlog/shared/utils"
)

func (h *Handler) toCommentResponse(c *domain.Comment) api.CommentResponse {
	return api.CommentResponse{
		Id:          c.Id,
		PostId:      c.PostId,
		AuthorId:    c.AuthorId,
		ParentId:    c.ParentId,
		Content:     c.Content,
		ContentHTML: h.markup.Render(c.Content),
		Images:      append([]string{}, c.Images...),
		CreatedAt:   c.CreatedAt,
	}
}

func (h *Handler) toThreadResponses(tree []domain.CommentThread) []api.CommentThreadResponse {
	threads := make([]api.CommentThreadResponse, 0, len(tree))
	for _, thread := range tree {
		replies := make([]api.CommentResponse, 0, len(thread.Replies))
		for _, reply := range thread.Replies {
			replies = append(replies, h.toCommentResponse(reply))
		}
		threads = append(threads, api.CommentThreadResponse{
			CommentResponse: h.toCommentResponse(thread.Comment),
			Replies:         replies,
		})
	}
	return threads
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
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

	body, files, cleanup, err := parseRequest[api.CreateCommentRequest](w, r, h)
	defer cleanup()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	comment, err := h.comment.Create(r.Context(), domain.CommentCreationData{
		PostId:   postId,
		AuthorId: user.Id,
		ParentId: body.ParentId,
		Content:  body.Content,
		Files:    files,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.CreatedResponse{Id: comment.Id})
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	user, err := callerFromRequest(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	commentId, err := parseIdParam(r, "comment")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	body, files, cleanup, err := parseRequest[api.UpdateCommentRequest](w, r, h)
	defer cleanup()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	comment, err := h.comment.Update(r.Context(), domain.CommentUpdateData{
		Id:            commentId,
		Content:       body.Content,
		RemovedImages: body.RemovedImages,
		Files:         files,
		CallerId:      user.Id,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toCommentResponse(comment))
}

// DeleteComment removes the comment and, for a top-level comment, its replies.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user, err := callerFromRequest(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	commentId, err := parseIdParam(r, "comment")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.comment.Delete(r.Context(), commentId, user.Id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
