package server

import (
	"vidtube/internal/models"
	"vidtube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ToggleVideoLike handles POST /api/v1/likes/toggle/v/:videoId
// @Summary Toggle video like
// @Description Likes the video, or removes the caller's like if present
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param videoId path string true "Video ID"
// @Success 200 {object} models.ApiResponse{data=service.ToggleLikeResult}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /likes/toggle/v/{videoId} [post]
func (s *Server) ToggleVideoLike(c *fiber.Ctx) error {
	return s.toggleLike(c, models.SubjectVideo, "videoId")
}

// ToggleCommentLike handles POST /api/v1/likes/toggle/c/:commentId
// @Summary Toggle comment like
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param commentId path string true "Comment ID"
// @Success 200 {object} models.ApiResponse{data=service.ToggleLikeResult}
// @Router /likes/toggle/c/{commentId} [post]
func (s *Server) ToggleCommentLike(c *fiber.Ctx) error {
	return s.toggleLike(c, models.SubjectComment, "commentId")
}

// ToggleTweetLike handles POST /api/v1/likes/toggle/t/:tweetId
// @Summary Toggle tweet like
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param tweetId path string true "Tweet ID"
// @Success 200 {object} models.ApiResponse{data=service.ToggleLikeResult}
// @Router /likes/toggle/t/{tweetId} [post]
func (s *Server) ToggleTweetLike(c *fiber.Ctx) error {
	return s.toggleLike(c, models.SubjectTweet, "tweetId")
}

func (s *Server) toggleLike(c *fiber.Ctx, subject models.SubjectType, param string) error {
	res, err := s.likeService.ToggleLike(c.UserContext(), service.ToggleLikeInput{
		UserID:      currentUser(c),
		SubjectType: subject,
		SubjectID:   c.Params(param),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, res, service.ToggleMessage(subject, res.Liked))
}

// GetLikedVideos handles GET /api/v1/likes/videos
// @Summary Liked videos
// @Description Videos the caller liked, most recent like first
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} models.ApiResponse
// @Router /likes/videos [get]
func (s *Server) GetLikedVideos(c *fiber.Ctx) error {
	page, err := s.likeService.GetLikedVideos(c.UserContext(), currentUser(c), parsePageRequest(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, page, "Liked videos fetched successfully")
}
