package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/codingbrain01/MyBlog/backend/internal/service"
	"github.com/codingbrain01/MyBlog/shared/config"
	"github.com/codingbrain01/MyBlog/shared/logger"
	"github.com/codingbrain01/MyBlog/shared/markup"
)

// HealthChecker reports whether the database is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	post    service.PostService
	comment service.CommentService
	markup  *markup.Renderer
	cfg     *config.Config
	health  HealthChecker
}

func New(post service.PostService, comment service.CommentService, cfg *config.Config, health HealthChecker) *Handler {
	return &Handler{
		post:    post,
		comment: comment,
		markup:  markup.New(),
		cfg:     cfg,
		health:  health,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Log.Error("failed to encode response", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
