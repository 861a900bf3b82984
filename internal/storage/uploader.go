package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"vidtube/internal/middleware"
	"vidtube/internal/observability"
)

// Uploader is what the service layer needs from media hosting.
type Uploader interface {
	Upload(ctx context.Context, localPath string, kind Kind) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
}

// DurationProber returns a media file's duration in seconds.
type DurationProber func(ctx context.Context, path string) (float64, error)

// MediaHost uploads media through a Backend guarded by a circuit breaker.
type MediaHost struct {
	backend Backend
	cb      *gobreaker.CircuitBreaker[string]
	probe   DurationProber
	tmpDir  string
}

// Option configures a MediaHost.
type Option func(*MediaHost)

// WithProber overrides the ffprobe duration lookup.
func WithProber(p DurationProber) Option {
	return func(h *MediaHost) { h.probe = p }
}

// WithBreakerSettings overrides the default breaker settings.
func WithBreakerSettings(st gobreaker.Settings) Option {
	return func(h *MediaHost) { h.cb = newBreaker(st) }
}

// NewMediaHost wraps backend. tmpDir holds re-encoded thumbnails until upload.
func NewMediaHost(backend Backend, tmpDir string, opts ...Option) *MediaHost {
	h := &MediaHost{
		backend: backend,
		probe:   ProbeDuration,
		tmpDir:  tmpDir,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.cb == nil {
		h.cb = newBreaker(gobreaker.Settings{
			Name:        "media-" + backend.Name(),
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		})
	}
	return h
}

func newBreaker(st gobreaker.Settings) *gobreaker.CircuitBreaker[string] {
	name := st.Name
	st.OnStateChange = func(_ string, from, to gobreaker.State) {
		observability.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
		middleware.Logger.Warn("media circuit breaker state changed",
			slog.String("breaker", name),
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	}
	observability.CircuitBreakerState.WithLabelValues(name).Set(0)
	return gobreaker.NewCircuitBreaker[string](st)
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Upload normalises localPath for kind and stores it. The caller owns
// localPath; intermediate files created here are removed.
func (h *MediaHost) Upload(ctx context.Context, localPath string, kind Kind) (result *UploadResult, err error) {
	ctx, span := observability.StartClientSpan(ctx, "storage", "upload."+string(kind))
	start := time.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		observability.MediaUploads.WithLabelValues(string(kind), outcome).Inc()
		observability.MediaUploadLatency.WithLabelValues(h.backend.Name()).Observe(time.Since(start).Seconds())
		observability.EndSpan(span, err)
	}()

	info, err := os.Stat(localPath)
	if err != nil {
		return nil, fmt.Errorf("stat upload: %w", err)
	}
	if info.Size() == 0 {
		return nil, ErrEmptyFile
	}

	result = &UploadResult{}
	src := localPath
	switch kind {
	case KindVideo:
		ext := strings.ToLower(filepath.Ext(localPath))
		result.Key = "videos/" + uuid.NewString() + ext
		result.ContentType = contentTypeFor(ext, "video/mp4")
		result.Bytes = info.Size()
		if d, perr := h.probe(ctx, localPath); perr == nil {
			result.Duration = d
		} else {
			middleware.Logger.WarnContext(ctx, "duration probe failed", slog.String("error", perr.Error()))
		}
	case KindThumbnail:
		out, size, nerr := NormalizeThumbnail(localPath, h.tmpDir)
		if nerr != nil {
			return nil, nerr
		}
		defer os.Remove(out)
		src = out
		result.Key = "thumbnails/" + uuid.NewString() + ".webp"
		result.ContentType = "image/webp"
		result.Bytes = size
	default:
		return nil, fmt.Errorf("unknown media kind %q", kind)
	}

	url, err := h.cb.Execute(func() (string, error) {
		return h.backend.Put(ctx, result.Key, src, result.ContentType)
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", kind, err)
	}
	result.URL = url
	return result, nil
}

// Delete removes an object. Missing objects are not an error.
func (h *MediaHost) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	ctx, span := observability.StartClientSpan(ctx, "storage", "delete")
	_, err := h.cb.Execute(func() (string, error) {
		return "", h.backend.Remove(ctx, key)
	})
	observability.EndSpan(span, err)
	return err
}

// IsUnavailable reports whether err came from an open breaker.
func IsUnavailable(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func contentTypeFor(ext, fallback string) string {
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return fallback
}
