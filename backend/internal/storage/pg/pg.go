package pg

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/codingbrain01/MyBlog/shared/config"
	"github.com/codingbrain01/MyBlog/shared/logger"
	sharedpg "github.com/codingbrain01/MyBlog/shared/storage/pg"
)

//go:embed migrations/init.sql
var schema string

type Storage struct {
	db *sql.DB
}

func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	return NewWithConnectionConfig(ctx, cfg, sharedpg.DefaultConnectionConfig())
}

func NewWithConnectionConfig(ctx context.Context, cfg *config.Config, connCfg sharedpg.ConnectionConfig) (*Storage, error) {
	logger.Log.Info("connecting to database", "host", cfg.Private.Pg.Host, "dbname", cfg.Private.Pg.Dbname)
	db, err := sharedpg.Connect(ctx, cfg, connCfg)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to database")
	return &Storage{db: db}, nil
}

// Migrate creates the tables if they do not exist yet.
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}
