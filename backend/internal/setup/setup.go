package setup

import (
	"context"
	"fmt"

	"github.com/codingbrain01/MyBlog/backend/internal/handler"
	"github.com/codingbrain01/MyBlog/backend/internal/service"
	"github.com/codingbrain01/MyBlog/backend/internal/storage/fs"
	"github.com/codingbrain01/MyBlog/backend/internal/storage/pg"
	"github.com/codingbrain01/MyBlog/backend/internal/utils"
	"github.com/codingbrain01/MyBlog/shared/config"
	"github.com/codingbrain01/MyBlog/shared/jwt"
	"github.com/codingbrain01/MyBlog/shared/middleware"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Media          *fs.Storage
	Images         *service.ImageStore
	Sweeper        *service.OrphanSweeper
	Handler        *handler.Handler
	Jwt            jwt.JwtService
	AuthMiddleware *middleware.Auth
}

// SetupDependencies connects to the database, applies the schema and wires
// the services. The caller owns Storage and must Cleanup it.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(ctx); err != nil {
		storage.Cleanup()
		return nil, err
	}

	deps, err := wire(cfg, storage)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}
	return deps, nil
}

func wire(cfg *config.Config, storage *pg.Storage) (*Dependencies, error) {
	media := cfg.Public.Media
	objects, err := fs.New(media.RootPath, media.Bucket, media.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open media storage: %w", err)
	}

	images := service.NewImageStore(objects, objects.PublicURL())
	cascade := service.NewCascade(storage, images)
	post := service.NewPost(storage, images, cascade, &utils.PostValidator{}, media.MaxImagesPerEntity)
	comment := service.NewComment(storage, storage, images, &utils.CommentValidator{}, media.MaxImagesPerEntity)
	sweeper := service.NewOrphanSweeper(storage, objects, images, media.OrphanSweepThreshold)

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Media:          objects,
		Images:         images,
		Sweeper:        sweeper,
		Handler:        handler.New(post, comment, cfg, storage),
		Jwt:            jwtService,
		AuthMiddleware: middleware.NewAuth(jwtService),
	}, nil
}
