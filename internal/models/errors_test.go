package models

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_StatusCode(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewValidationError("bad"), fiber.StatusBadRequest},
		{NewUnauthorizedError("who"), fiber.StatusUnauthorized},
		{NewForbiddenError("no"), fiber.StatusForbidden},
		{NewNotFoundError("Video"), fiber.StatusNotFound},
		{NewTooManyRequestsError("slow"), fiber.StatusTooManyRequests},
		{NewInternalError("", errors.New("db")), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.StatusCode(), tt.err.Code)
	}
}

func TestAppError_WrapsAndMessages(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("upload: %w", NewInternalError("Failed to upload video", cause))

	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsCode(err, CodeInternal))
	assert.False(t, IsCode(err, CodeNotFound))
	assert.Equal(t, "Video not found", NewNotFoundError("Video").Message)
	assert.Equal(t, internalErrorMessage, NewInternalError("", cause).Message)
}

func TestRespondWithError_Envelope(t *testing.T) {
	app := fiber.New()
	app.Get("/app", func(c *fiber.Ctx) error {
		return RespondWithError(c, NewValidationError("Invalid video ID", "videoId must be a UUID"))
	})
	app.Get("/raw", func(c *fiber.Ctx) error {
		return RespondWithError(c, errors.New("pq: secret detail"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/app", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, 400, body.StatusCode)
	assert.False(t, body.Success)
	assert.Equal(t, "Invalid video ID", body.Message)
	assert.Equal(t, []string{"videoId must be a UUID"}, body.Errors)

	resp, err = app.Test(httptest.NewRequest("GET", "/raw", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	raw, _ = io.ReadAll(resp.Body)
	assert.NotContains(t, string(raw), "secret detail")
	assert.Contains(t, string(raw), `"errors":[]`)
}

func TestRespondWithData_Envelope(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return RespondWithData(c, fiber.StatusCreated, fiber.Map{"liked": true}, "Video liked successfully")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body map[string]any
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, float64(201), body["statusCode"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Video liked successfully", body["message"])
	assert.Equal(t, map[string]any{"liked": true}, body["data"])
}
