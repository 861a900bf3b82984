package server

import (
	"strings"

	"vidtube/internal/middleware"
	"vidtube/internal/models"
	"vidtube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAllVideos handles GET /api/v1/videos
// @Summary List videos
// @Description Published videos with optional search, owner filter, sort and pagination
// @Tags videos
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Param query query string false "Case-insensitive search over title and description"
// @Param sortBy query string false "createdAt, updatedAt, title, views or duration"
// @Param sortType query string false "asc or desc"
// @Param userId query string false "Owner ID"
// @Success 200 {object} models.ApiResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /videos [get]
func (s *Server) GetAllVideos(c *fiber.Ctx) error {
	page, err := s.videoService.ListVideos(c.UserContext(), service.ListVideosInput{
		Query:    c.Query("query"),
		UserID:   c.Query("userId"),
		SortBy:   c.Query("sortBy"),
		SortType: c.Query("sortType"),
		Page:     parsePageRequest(c),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, page, "Videos fetched successfully")
}

// PublishVideo handles POST /api/v1/videos
// @Summary Publish video
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param videoFile formData file true "Video file"
// @Param thumbnail formData file true "Thumbnail image"
// @Success 201 {object} models.ApiResponse{data=models.Video}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /videos [post]
func (s *Server) PublishVideo(c *fiber.Ctx) error {
	uploads := s.newUploadSet()
	defer uploads.cleanup()

	videoPath, err := uploads.save(c, "videoFile")
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError("Failed to upload video", err))
	}
	thumbnailPath, err := uploads.save(c, "thumbnail")
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError("Failed to upload thumbnail", err))
	}

	video, err := s.videoService.PublishVideo(c.UserContext(), service.PublishVideoInput{
		UserID:        currentUser(c),
		Title:         c.FormValue("title"),
		Description:   c.FormValue("description"),
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusCreated, video, "Video published successfully")
}

// GetVideoByID handles GET /api/v1/videos/:videoId
// @Summary Get video
// @Description Returns the video and counts a view. Unpublished videos are visible to their owner only.
// @Tags videos
// @Produce json
// @Param videoId path string true "Video ID"
// @Success 200 {object} models.ApiResponse{data=models.Video}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /videos/{videoId} [get]
func (s *Server) GetVideoByID(c *fiber.Ctx) error {
	viewer, _ := middleware.UserID(c)
	video, err := s.videoService.GetVideo(c.UserContext(), c.Params("videoId"), viewer)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, video, "Video fetched successfully")
}

type updateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// parseUpdateVideoRequest accepts JSON or multipart bodies. Absent fields stay nil.
func parseUpdateVideoRequest(c *fiber.Ctx) (updateVideoRequest, error) {
	var req updateVideoRequest
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return req, models.NewValidationError("Invalid request body")
		}
		if v, ok := form.Value["title"]; ok && len(v) > 0 {
			req.Title = &v[0]
		}
		if v, ok := form.Value["description"]; ok && len(v) > 0 {
			req.Description = &v[0]
		}
		return req, nil
	}
	if len(c.Body()) == 0 {
		return req, nil
	}
	if err := c.BodyParser(&req); err != nil {
		return req, models.NewValidationError("Invalid request body")
	}
	return req, nil
}

// UpdateVideo handles PATCH /api/v1/videos/:videoId
// @Summary Update video
// @Tags videos
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param videoId path string true "Video ID"
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Param thumbnail formData file false "Replacement thumbnail"
// @Success 200 {object} models.ApiResponse{data=models.Video}
// @Failure 403 {object} models.ErrorResponse
// @Router /videos/{videoId} [patch]
func (s *Server) UpdateVideo(c *fiber.Ctx) error {
	req, err := parseUpdateVideoRequest(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	uploads := s.newUploadSet()
	defer uploads.cleanup()
	thumbnailPath, err := uploads.save(c, "thumbnail")
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError("Failed to upload thumbnail", err))
	}

	video, err := s.videoService.UpdateVideo(c.UserContext(), service.UpdateVideoInput{
		UserID:        currentUser(c),
		VideoID:       c.Params("videoId"),
		Title:         req.Title,
		Description:   req.Description,
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, video, "Video updated successfully")
}

// DeleteVideo handles DELETE /api/v1/videos/:videoId
// @Summary Delete video
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param videoId path string true "Video ID"
// @Success 200 {object} models.ApiResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /videos/{videoId} [delete]
func (s *Server) DeleteVideo(c *fiber.Ctx) error {
	err := s.videoService.DeleteVideo(c.UserContext(), service.VideoOwnerInput{
		UserID:  currentUser(c),
		VideoID: c.Params("videoId"),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{}, "Video deleted successfully")
}

// TogglePublishStatus handles PATCH /api/v1/videos/toggle/publish/:videoId
// @Summary Toggle publish status
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param videoId path string true "Video ID"
// @Success 200 {object} models.ApiResponse{data=models.Video}
// @Failure 403 {object} models.ErrorResponse
// @Router /videos/toggle/publish/{videoId} [patch]
func (s *Server) TogglePublishStatus(c *fiber.Ctx) error {
	video, err := s.videoService.TogglePublishStatus(c.UserContext(), service.VideoOwnerInput{
		UserID:  currentUser(c),
		VideoID: c.Params("videoId"),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, video, "Video publish status updated successfully")
}
