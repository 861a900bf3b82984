package storage

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	putFn    func(key, path, contentType string) (string, error)
	removeFn func(key string) error
	puts     int
}

func (s *stubBackend) Name() string { return "stub" }

func (s *stubBackend) Put(_ context.Context, key, path, contentType string) (string, error) {
	s.puts++
	if s.putFn != nil {
		return s.putFn(key, path, contentType)
	}
	return "https://cdn.test/" + key, nil
}

func (s *stubBackend) Remove(_ context.Context, key string) error {
	if s.removeFn != nil {
		return s.removeFn(key)
	}
	return nil
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	p := filepath.Join(dir, "thumb.png")
	f, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return p
}

func fixedProber(d float64, err error) DurationProber {
	return func(context.Context, string) (float64, error) { return d, err }
}

func TestMediaHost_UploadVideo(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "clip.mp4", []byte("not really a video"))
	backend := &stubBackend{}
	host := NewMediaHost(backend, dir, WithProber(fixedProber(12.5, nil)))

	res, err := host.Upload(context.Background(), src, KindVideo)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Key, "videos/"))
	assert.True(t, strings.HasSuffix(res.Key, ".mp4"))
	assert.Equal(t, "https://cdn.test/"+res.Key, res.URL)
	assert.Equal(t, 12.5, res.Duration)
	assert.Equal(t, int64(len("not really a video")), res.Bytes)
	assert.Equal(t, "video/mp4", res.ContentType)
}

func TestMediaHost_UploadVideoProbeFailureDefaultsToZero(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "clip.mp4", []byte("abc"))
	host := NewMediaHost(&stubBackend{}, dir, WithProber(fixedProber(0, errors.New("no ffprobe"))))

	res, err := host.Upload(context.Background(), src, KindVideo)
	require.NoError(t, err)
	assert.Zero(t, res.Duration)
}

func TestMediaHost_UploadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "empty.mp4", nil)
	backend := &stubBackend{}
	host := NewMediaHost(backend, dir, WithProber(fixedProber(1, nil)))

	_, err := host.Upload(context.Background(), src, KindVideo)
	assert.ErrorIs(t, err, ErrEmptyFile)
	assert.Zero(t, backend.puts)
}

func TestMediaHost_UploadThumbnailReencodesToWebP(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, 1920, 1080)

	var uploaded string
	backend := &stubBackend{putFn: func(key, path, contentType string) (string, error) {
		assert.Equal(t, "image/webp", contentType)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "RIFF", string(data[:4]))
		assert.Equal(t, "WEBP", string(data[8:12]))
		uploaded = path
		return "https://cdn.test/" + key, nil
	}}
	host := NewMediaHost(backend, dir)

	res, err := host.Upload(context.Background(), src, KindThumbnail)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Key, "thumbnails/"))
	assert.True(t, strings.HasSuffix(res.Key, ".webp"))

	_, statErr := os.Stat(uploaded)
	assert.True(t, os.IsNotExist(statErr), "re-encoded temp file should be removed")
	_, statErr = os.Stat(src)
	assert.NoError(t, statErr, "caller's file is left alone")
}

func TestMediaHost_UploadThumbnailRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "thumb.jpg", []byte("definitely not an image"))
	backend := &stubBackend{}
	host := NewMediaHost(backend, dir)

	_, err := host.Upload(context.Background(), src, KindThumbnail)
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
	assert.Zero(t, backend.puts)
}

func TestMediaHost_BreakerOpensAfterFailures(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "clip.mp4", []byte("abc"))
	backend := &stubBackend{putFn: func(string, string, string) (string, error) {
		return "", errors.New("bucket unreachable")
	}}
	host := NewMediaHost(backend, dir,
		WithProber(fixedProber(1, nil)),
		WithBreakerSettings(gobreaker.Settings{
			Name:    "media-test",
			Timeout: time.Minute,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 2
			},
		}),
	)

	for i := 0; i < 2; i++ {
		_, err := host.Upload(context.Background(), src, KindVideo)
		require.Error(t, err)
		assert.False(t, IsUnavailable(err))
	}

	_, err := host.Upload(context.Background(), src, KindVideo)
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.Equal(t, 2, backend.puts)
}

func TestMediaHost_DeleteEmptyKeyIsNoop(t *testing.T) {
	called := false
	host := NewMediaHost(&stubBackend{removeFn: func(string) error {
		called = true
		return nil
	}}, t.TempDir())

	require.NoError(t, host.Delete(context.Background(), ""))
	assert.False(t, called)
	require.NoError(t, host.Delete(context.Background(), "videos/a.mp4"))
	assert.True(t, called)
}

func TestResizeToFit(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"already small", 640, 360, 640, 360},
		{"wide", 2560, 1440, 1280, 720},
		{"tall", 1000, 2000, 360, 720},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := resizeToFit(image.NewRGBA(image.Rect(0, 0, tt.w, tt.h)), 1280, 720)
			assert.Equal(t, tt.wantW, out.Bounds().Dx())
			assert.Equal(t, tt.wantH, out.Bounds().Dy())
		})
	}
}

func TestParseProbeDuration(t *testing.T) {
	d, err := parseProbeDuration(`{"format":{"duration":"61.040000"}}`)
	require.NoError(t, err)
	assert.InDelta(t, 61.04, d, 0.0001)

	_, err = parseProbeDuration(`{"format":{}}`)
	assert.Error(t, err)

	_, err = parseProbeDuration(`nope`)
	assert.Error(t, err)
}
