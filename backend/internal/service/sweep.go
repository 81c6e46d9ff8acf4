package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/codingbrain01/MyBlog/shared/domain"
	"github.com/codingbrain01/MyBlog/shared/logger"
)

// OrphanSweeper deletes objects in the image bucket that no post or comment references.
// Uploads whose save failed, and deletes that failed during edits, end up here.
type OrphanSweeper struct {
	storage   SweepStorage
	objects   SweepObjectStore
	resolver  PathResolver
	threshold time.Duration
	now       func() time.Time
	log       *slog.Logger

	mu        sync.Mutex
	lastStats SweepStats
}

// SweepStats tracks metrics from the last sweep.
type SweepStats struct {
	RunAt       time.Time
	KeysScanned int
	Referenced  int
	Orphaned    int
	TooYoung    int
	KeysDeleted int
	DurationMs  int64
	Errors      []string
}

// SweepStorage lists every image reference recorded on any entity.
type SweepStorage interface {
	GetAllImageRefs(ctx context.Context) ([]domain.ImageRef, error)
}

// SweepObjectStore enumerates and removes bucket objects.
type SweepObjectStore interface {
	WalkKeys(ctx context.Context) ([]string, error)
	ModTime(ctx context.Context, key string) (time.Time, error)
	BulkDelete(ctx context.Context, keys []string) error
}

type PathResolver interface {
	ResolvePath(ref domain.ImageRef) (string, bool)
}

// NewOrphanSweeper creates a sweeper. threshold is the minimum object age
// before deletion, which covers uploads whose row is not saved yet.
func NewOrphanSweeper(storage SweepStorage, objects SweepObjectStore, resolver PathResolver, threshold time.Duration) *OrphanSweeper {
	return &OrphanSweeper{
		storage:   storage,
		objects:   objects,
		resolver:  resolver,
		threshold: threshold,
		now:       time.Now,
		log:       logger.Component("orphan_sweeper"),
	}
}

// StartBackgroundCleanup runs RunCleanup every interval until ctx is done.
func (s *OrphanSweeper) StartBackgroundCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.log.Warn("sweep interval not configured, background sweeper disabled")
		return
	}

	ticker := time.NewTicker(interval)
	s.log.Info("started orphan sweeper", "interval", interval, "threshold", s.threshold)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.RunCleanup(ctx); err != nil {
					s.log.Error("sweep failed", "error", err)
					continue
				}
				stats := s.GetLastStats()
				s.log.Info("sweep completed",
					"scanned", stats.KeysScanned,
					"orphaned", stats.Orphaned,
					"deleted", stats.KeysDeleted,
					"duration_ms", stats.DurationMs,
					"errors", len(stats.Errors))
			case <-ctx.Done():
				s.log.Info("orphan sweeper shutting down")
				return
			}
		}
	}()
}

// RunCleanup executes a single sweep.
func (s *OrphanSweeper) RunCleanup(ctx context.Context) error {
	start := s.now()
	stats := SweepStats{RunAt: start, Errors: []string{}}

	refs, err := s.storage.GetAllImageRefs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list image references: %w", err)
	}
	referenced := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if key, ok := s.resolver.ResolvePath(ref); ok {
			referenced[key] = struct{}{}
		}
	}

	keys, err := s.objects.WalkKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to walk object store: %w", err)
	}
	stats.KeysScanned = len(keys)

	var orphans []string
	for _, key := range keys {
		if _, ok := referenced[key]; ok {
			stats.Referenced++
			continue
		}
		modTime, err := s.objects.ModTime(ctx, key)
		if err != nil {
			stats.Errors = append(stats.Errors, "stat error: "+key+": "+err.Error())
			continue
		}
		if start.Sub(modTime) < s.threshold {
			stats.TooYoung++
			continue
		}
		orphans = append(orphans, key)
	}
	stats.Orphaned = len(orphans)

	if len(orphans) > 0 {
		if err := s.objects.BulkDelete(ctx, orphans); err != nil {
			stats.Errors = append(stats.Errors, "delete error: "+err.Error())
		} else {
			stats.KeysDeleted = len(orphans)
			orphansSweptTotal.Add(float64(len(orphans)))
		}
	}

	stats.DurationMs = s.now().Sub(start).Milliseconds()
	s.mu.Lock()
	s.lastStats = stats
	s.mu.Unlock()
	return nil
}

// GetLastStats returns statistics from the last sweep.
func (s *OrphanSweeper) GetLastStats() SweepStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStats
}
