package middleware

import (
	"github.com/gofiber/fiber/v2"

	"gestion-agents/internal/domain"
)

// RequireRole gates a route behind a role. Admins pass everything.
func RequireRole(role domain.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current := GetCurrentUserRole(c)
		if current == domain.RoleAdmin || current == role {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"code":    "FORBIDDEN",
			"message": "Insufficient permissions",
		})
	}
}
