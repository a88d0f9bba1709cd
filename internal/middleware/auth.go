package middleware

import (
	"errors"

	"github.com/goaltrackhq/goaltrack-backend/internal/config"
	"github.com/goaltrackhq/goaltrack-backend/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected gates a route behind a bearer token. A missing or malformed
// Authorization header is 401; a token that fails signature or expiry
// verification is 403.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Error:   true,
					Message: "Unauthorized: missing bearer token",
				})
			}
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Forbidden: invalid or expired token",
			})
		},
	})
}
