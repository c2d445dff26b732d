package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/mwhitfield/fpl-projector/internal/snapshot"
)

// RefresherService rebuilds the snapshot on a schedule. Each rebuild
// produces a complete new snapshot that is published atomically; caches
// holding derived projections are invalidated afterwards so no request
// mixes old and new data.
type RefresherService struct {
	loader    snapshot.Loader
	store     *snapshot.Store
	ttlCache  *TTLCache
	cache     *CacheService
	syncer    Syncer
	logger    *logrus.Logger
	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
	interval  time.Duration
	lastRun   time.Time
	lastError string
}

// Syncer pulls fresh upstream data into the source schema ahead of a
// rebuild. Optional; sync failures degrade to rebuilding from whatever
// the schema already holds.
type Syncer interface {
	SyncAll(ctx context.Context) error
}

func NewRefresherService(
	loader snapshot.Loader,
	store *snapshot.Store,
	ttlCache *TTLCache,
	cache *CacheService,
	logger *logrus.Logger,
	interval time.Duration,
) *RefresherService {
	return &RefresherService{
		loader:   loader,
		store:    store,
		ttlCache: ttlCache,
		cache:    cache,
		logger:   logger,
		cron:     cron.New(),
		interval: interval,
	}
}

// Start begins scheduled refreshing and runs an initial rebuild.
func (s *RefresherService) Start(skipInitial bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("refresher is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.interval.String())
	_, err := s.cron.AddFunc(schedule, func() {
		if err := s.Refresh(); err != nil {
			s.logger.Errorf("Scheduled snapshot refresh failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresher: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	if !skipInitial {
		go func() {
			if err := s.Refresh(); err != nil {
				s.logger.Errorf("Initial snapshot refresh failed: %v", err)
			}
		}()
	}

	s.logger.Info("Snapshot refresher started")
	return nil
}

// Stop halts scheduled refreshing.
func (s *RefresherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Snapshot refresher stopped")
}

// WithSyncer makes every refresh pull upstream data first.
func (s *RefresherService) WithSyncer(syncer Syncer) *RefresherService {
	s.syncer = syncer
	return s
}

// Refresh rebuilds the snapshot once and publishes it atomically.
func (s *RefresherService) Refresh() error {
	s.logger.Info("Rebuilding data snapshot")
	start := time.Now()

	if s.syncer != nil {
		if err := s.syncer.SyncAll(context.Background()); err != nil {
			s.logger.Warnf("Upstream sync failed, rebuilding from existing data: %v", err)
		}
	}

	snap, err := s.loader.Load()
	if err != nil {
		s.recordRun(err)
		return fmt.Errorf("failed to build snapshot: %w", err)
	}

	s.store.Publish(snap)
	s.ttlCache.Invalidate()
	if s.cache != nil {
		if err := s.cache.Flush(); err != nil {
			s.logger.Warnf("Failed to flush response cache: %v", err)
		}
	}

	s.recordRun(nil)
	s.logger.Infof("Snapshot rebuilt in %s", time.Since(start).Round(time.Millisecond))
	return nil
}

func (s *RefresherService) recordRun(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun = time.Now()
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
}

// Status reports the refresher's scheduling state.
func (s *RefresherService) Status() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	nextRuns := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		nextRuns = append(nextRuns, entry.Next)
	}

	return map[string]interface{}{
		"is_running":       s.isRunning,
		"refresh_interval": s.interval.String(),
		"snapshot_ready":   s.store.Ready(),
		"last_run":         s.lastRun,
		"last_error":       s.lastError,
		"next_runs":        nextRuns,
	}
}
