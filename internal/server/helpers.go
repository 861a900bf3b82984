package server

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"vidtube/internal/middleware"
	"vidtube/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// parsePageRequest reads page and limit query parameters.
func parsePageRequest(c *fiber.Ctx) models.PageRequest {
	return models.ParsePageRequest(c.Query("page"), c.Query("limit"))
}

// currentUser returns the authenticated caller. Routes behind AuthRequired
// always have one.
func currentUser(c *fiber.Ctx) uuid.UUID {
	id, _ := middleware.UserID(c)
	return id
}

// uploadSet tracks multipart parts saved to the temp dir for one request.
type uploadSet struct {
	dir   string
	paths []string
}

func (s *Server) newUploadSet() *uploadSet {
	return &uploadSet{dir: s.config.UploadTmpDir}
}

// save writes the multipart file field to the temp dir. It returns "" when the
// field is absent.
func (u *uploadSet) save(c *fiber.Ctx, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh.Size == 0 {
		return "", nil
	}
	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	dst := filepath.Join(u.dir, uuid.NewString()+ext)
	if err := c.SaveFile(fh, dst); err != nil {
		return "", err
	}
	u.paths = append(u.paths, dst)
	return dst, nil
}

// cleanup removes every saved part.
func (u *uploadSet) cleanup() {
	for _, p := range u.paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			middleware.Logger.Warn("failed to remove temp upload", slog.String("path", p), slog.String("error", err.Error()))
		}
	}
}
