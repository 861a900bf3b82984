package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"vidtube/internal/middleware"
	"vidtube/internal/observability"
	"vidtube/internal/repository"
)

const (
	defaultViewQueueSize = 1024
	viewJobTimeout       = 5 * time.Second
)

type viewJob struct {
	videoID  uuid.UUID
	viewerID uuid.UUID
	at       time.Time
}

// ViewCounter persists view increments and watch history on a single
// background worker. Enqueue never blocks; a full queue drops the view.
type ViewCounter struct {
	videos  repository.VideoRepository
	history repository.WatchHistoryRepository

	mu     sync.RWMutex
	closed bool
	jobs   chan viewJob

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// NewViewCounter creates a counter with a queue of size jobs. history may be
// nil, in which case watch history is not recorded.
func NewViewCounter(videos repository.VideoRepository, history repository.WatchHistoryRepository, size int) *ViewCounter {
	if size <= 0 {
		size = defaultViewQueueSize
	}
	return &ViewCounter{
		videos:  videos,
		history: history,
		jobs:    make(chan viewJob, size),
		done:    make(chan struct{}),
	}
}

// Start launches the worker. Calling it more than once has no effect.
func (vc *ViewCounter) Start() {
	vc.startOnce.Do(func() {
		go vc.run()
	})
}

// Enqueue schedules one view of videoID. viewerID is uuid.Nil for anonymous
// viewers. It reports whether the job was queued.
func (vc *ViewCounter) Enqueue(videoID, viewerID uuid.UUID) bool {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	if vc.closed {
		observability.ViewCounterEvents.WithLabelValues("view", "dropped").Inc()
		return false
	}

	select {
	case vc.jobs <- viewJob{videoID: videoID, viewerID: viewerID, at: time.Now().UTC()}:
		observability.ViewCounterQueueDepth.Set(float64(len(vc.jobs)))
		return true
	default:
		observability.ViewCounterEvents.WithLabelValues("view", "dropped").Inc()
		middleware.Logger.Warn("view counter queue full, dropping view",
			slog.String("video_id", videoID.String()))
		return false
	}
}

// Stop closes the queue and waits for queued jobs to drain or ctx to end.
// A counter that was never started drains synchronously.
func (vc *ViewCounter) Stop(ctx context.Context) error {
	vc.stopOnce.Do(func() {
		vc.mu.Lock()
		vc.closed = true
		close(vc.jobs)
		vc.mu.Unlock()
		vc.startOnce.Do(func() {
			go vc.run()
		})
	})

	select {
	case <-vc.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (vc *ViewCounter) run() {
	defer close(vc.done)
	for job := range vc.jobs {
		observability.ViewCounterQueueDepth.Set(float64(len(vc.jobs)))
		vc.apply(job)
	}
}

func (vc *ViewCounter) apply(job viewJob) {
	ctx, cancel := context.WithTimeout(context.Background(), viewJobTimeout)
	defer cancel()

	if err := vc.videos.IncrementViews(ctx, job.videoID); err != nil {
		observability.ViewCounterEvents.WithLabelValues("view", "failed").Inc()
		middleware.Logger.Warn("failed to increment views",
			slog.String("video_id", job.videoID.String()),
			slog.String("error", err.Error()),
		)
	} else {
		observability.ViewCounterEvents.WithLabelValues("view", "applied").Inc()
	}

	if vc.history == nil || job.viewerID == uuid.Nil {
		return
	}
	if err := vc.history.Record(ctx, job.viewerID, job.videoID, job.at); err != nil {
		observability.ViewCounterEvents.WithLabelValues("history", "failed").Inc()
		middleware.Logger.Warn("failed to record watch history",
			slog.String("video_id", job.videoID.String()),
			slog.String("user_id", job.viewerID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	observability.ViewCounterEvents.WithLabelValues("history", "applied").Inc()
}
