package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/codingbrain01/MyBlog/backend/internal/setup"
	mw "github.com/codingbrain01/MyBlog/shared/middleware"
	"github.com/codingbrain01/MyBlog/shared/middleware/metrics"
	rl "github.com/codingbrain01/MyBlog/shared/middleware/ratelimiter"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// New creates the chi router with all the routes.
func New(deps *setup.Dependencies) *chi.Mux {
	cfg := deps.Config.Public
	r := chi.NewRouter()

	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.SecurityHeaders(cfg.SecureCookies, mw.APIContentSecurityPolicy))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", metrics.Handler())

	// Uploaded images, served under the path of public_base_url + bucket.
	mediaPrefix := cfg.Media.PublicPath()
	r.Handle(mediaPrefix+"*", http.StripPrefix(mediaPrefix, noDirListing(http.FileServer(http.Dir(deps.Media.BucketPath())))))

	r.Route("/v1", func(v1 chi.Router) {
		v1.Group(func(public chi.Router) {
			public.Use(mw.RateLimit(rl.New(cfg.ReadRateLimit.Rps, cfg.ReadRateLimit.Burst, time.Hour), mw.IPIdentity))
			public.Use(authMw.OptionalAuth())

			public.Get("/posts", h.ListPosts)
			public.Get("/posts/{post}", h.GetPost)
			public.Get("/users/{user}/posts", h.ListUserPosts)
		})

		v1.Group(func(loggedIn chi.Router) {
			loggedIn.Use(authMw.NeedAuth())
			loggedIn.Use(mw.RateLimit(rl.New(cfg.WriteRateLimit.Rps, cfg.WriteRateLimit.Burst, time.Hour), mw.UserIdentity))

			loggedIn.Post("/posts", h.CreatePost)
			loggedIn.Put("/posts/{post}", h.UpdatePost)
			loggedIn.Delete("/posts/{post}", h.DeletePost)

			loggedIn.Post("/posts/{post}/comments", h.CreateComment)
			loggedIn.Put("/comments/{comment}", h.UpdateComment)
			loggedIn.Delete("/comments/{comment}", h.DeleteComment)
		})
	})

	return r
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
