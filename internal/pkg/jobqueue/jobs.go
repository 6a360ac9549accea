package jobqueue

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PixelShrink/app/repository"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/session"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/statistics"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/storage"
)

const (
	JobSessionSweep      = "session-sweep"
	JobDownloadSweep     = "download-sweep"
	JobStatisticsRefresh = "statistics-refresh"
	JobStatisticsPrune   = "statistics-prune"
)

// SessionSweep closes controllers idle for longer than maxIdle
func SessionSweep(registry *session.Registry, interval, maxIdle time.Duration) Job {
	return Job{
		Name:     JobSessionSweep,
		Interval: interval,
		Run: func(ctx context.Context) error {
			registry.Sweep(ctx, maxIdle)
			return nil
		},
	}
}

// DownloadSweep drops expired results from the in-memory store. Redis
// expires its keys on its own.
func DownloadSweep(store *storage.MemoryStore, interval time.Duration) Job {
	return Job{
		Name:     JobDownloadSweep,
		Interval: interval,
		Run: func(context.Context) error {
			if n := store.Sweep(); n > 0 {
				log.Debugf("[JobQueue] Removed %d expired downloads", n)
			}
			return nil
		},
	}
}

// StatisticsRefresh rebuilds the cached totals when they are stale
func StatisticsRefresh(service *statistics.Service, interval time.Duration) Job {
	return Job{
		Name:     JobStatisticsRefresh,
		Interval: interval,
		Run: func(context.Context) error {
			service.UpdateCacheIfNeeded()
			return nil
		},
	}
}

// StatisticsPrune deletes compression records older than retention
func StatisticsPrune(repo repository.CompressionRepository, interval, retention time.Duration) Job {
	return Job{
		Name:     JobStatisticsPrune,
		Interval: interval,
		Run: func(context.Context) error {
			n, err := repo.DeleteOlderThan(time.Now().Add(-retention))
			if err != nil {
				return err
			}
			if n > 0 {
				log.Infof("[JobQueue] Pruned %d compression records", n)
			}
			return nil
		},
	}
}
