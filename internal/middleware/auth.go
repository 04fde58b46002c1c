package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Mimesse/fit-coach-hub/pkg/utils"
)

// TokenRevoker reports whether a token id was invalidated by sign-out before
// its natural expiry.
type TokenRevoker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

func AuthRequired(secret string, revoker TokenRevoker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		claims, err := utils.ValidateToken(parts[1], secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		if revoker != nil && claims.ID != "" {
			revoked, err := revoker.IsTokenRevoked(c.Context(), claims.ID)
			if err != nil || revoked {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid or expired token",
				})
			}
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("role", claims.Role)
		c.Locals("token_id", claims.ID)
		if claims.ExpiresAt != nil {
			c.Locals("token_ttl", time.Until(claims.ExpiresAt.Time))
		}

		return c.Next()
	}
}
