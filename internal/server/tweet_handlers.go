package server

import (
	"vidtube/internal/models"
	"vidtube/internal/service"

	"github.com/gofiber/fiber/v2"
)

type tweetRequest struct {
	Content string `json:"content" form:"content"`
}

func parseTweetRequest(c *fiber.Ctx) (tweetRequest, error) {
	var req tweetRequest
	if err := c.BodyParser(&req); err != nil {
		return req, models.NewValidationError("Invalid request body")
	}
	return req, nil
}

// CreateTweet handles POST /api/v1/tweets
// @Summary Create tweet
// @Tags tweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{content=string} true "Tweet"
// @Success 201 {object} models.ApiResponse{data=models.Tweet}
// @Failure 400 {object} models.ErrorResponse
// @Router /tweets [post]
func (s *Server) CreateTweet(c *fiber.Ctx) error {
	req, err := parseTweetRequest(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	tweet, err := s.tweetService.CreateTweet(c.UserContext(), service.CreateTweetInput{
		UserID:  currentUser(c),
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusCreated, tweet, "Tweet created successfully")
}

// GetUserTweets handles GET /api/v1/tweets/user/:userId
// @Summary User tweets
// @Tags tweets
// @Produce json
// @Param userId path string true "User ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} models.ApiResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tweets/user/{userId} [get]
func (s *Server) GetUserTweets(c *fiber.Ctx) error {
	page, err := s.tweetService.GetUserTweets(c.UserContext(), c.Params("userId"), parsePageRequest(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, page, "User tweets fetched successfully")
}

// UpdateTweet handles PATCH /api/v1/tweets/:tweetId
// @Summary Update tweet
// @Tags tweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tweetId path string true "Tweet ID"
// @Param request body object{content=string} true "Tweet"
// @Success 200 {object} models.ApiResponse{data=models.Tweet}
// @Failure 403 {object} models.ErrorResponse
// @Router /tweets/{tweetId} [patch]
func (s *Server) UpdateTweet(c *fiber.Ctx) error {
	req, err := parseTweetRequest(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	tweet, err := s.tweetService.UpdateTweet(c.UserContext(), service.UpdateTweetInput{
		UserID:  currentUser(c),
		TweetID: c.Params("tweetId"),
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, tweet, "Tweet updated successfully")
}

// DeleteTweet handles DELETE /api/v1/tweets/:tweetId
// @Summary Delete tweet
// @Tags tweets
// @Produce json
// @Security BearerAuth
// @Param tweetId path string true "Tweet ID"
// @Success 200 {object} models.ApiResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /tweets/{tweetId} [delete]
func (s *Server) DeleteTweet(c *fiber.Ctx) error {
	err := s.tweetService.DeleteTweet(c.UserContext(), service.DeleteTweetInput{
		UserID:  currentUser(c),
		TweetID: c.Params("tweetId"),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{}, "Tweet deleted successfully")
}
