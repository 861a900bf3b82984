package middleware

import (
	"context"
	"strings"

	"vidtube/internal/auth"
	"vidtube/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AccessTokenCookie is the cookie checked when no Authorization header is sent.
const AccessTokenCookie = "accessToken"

// AuthRequired enforces a valid access token and stores the caller in c.Locals("userID").
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extractToken(c, false)
		if err != nil {
			return models.RespondWithError(c, err)
		}

		userID, err := auth.ParseAccessToken(secret, token)
		if err != nil {
			return models.RespondWithError(c, models.NewUnauthorizedError("Invalid or expired token"))
		}

		setUser(c, userID)
		return c.Next()
	}
}

// OptionalAuth resolves the caller when a valid token is present and lets the
// request through anonymously otherwise.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extractToken(c, false)
		if err != nil {
			return c.Next()
		}
		if userID, err := auth.ParseAccessToken(secret, token); err == nil {
			setUser(c, userID)
		}
		return c.Next()
	}
}

// WebSocketAuthRequired additionally accepts the token as a ?token= query parameter,
// since browsers cannot set headers on a websocket upgrade.
func WebSocketAuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extractToken(c, true)
		if err != nil {
			return models.RespondWithError(c, err)
		}

		userID, err := auth.ParseAccessToken(secret, token)
		if err != nil {
			return models.RespondWithError(c, models.NewUnauthorizedError("Invalid or expired token"))
		}

		setUser(c, userID)
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx, allowQuery bool) (string, error) {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", models.NewUnauthorizedError("Invalid authorization header format")
		}
		return parts[1], nil
	}
	if cookie := c.Cookies(AccessTokenCookie); cookie != "" {
		return cookie, nil
	}
	if allowQuery {
		if token := c.Query("token"); token != "" {
			return token, nil
		}
	}
	return "", models.NewUnauthorizedError("Unauthorized request")
}

// setUser stores the caller in locals and in the user context so the
// context-aware logger picks it up downstream.
func setUser(c *fiber.Ctx, userID uuid.UUID) {
	c.Locals("userID", userID)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
}

// UserID returns the authenticated caller, if any.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals("userID").(uuid.UUID)
	return id, ok && id != uuid.Nil
}
