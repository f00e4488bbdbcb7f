package middleware

import (
	"log"
	"strings"

	"bbshop/internal/models"
	"bbshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware that checks for a valid JWT bearer
// token and stores the caller's identity in the request context.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals("user_id", claims["user_id"])
		c.Locals("username", claims["username"])
		c.Locals("role", claims["role"])

		return c.Next()
	}
}

// RequireRoles allows the request through only when the authenticated
// caller's role is one of the given roles. It must run after AuthRequired.
func RequireRoles(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *fiber.Ctx) error {
		caller := CallerFromCtx(c)
		if !allowed[caller.Role] {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "This action is not permitted for your role",
			})
		}
		return c.Next()
	}
}

// CallerFromCtx rebuilds the caller identity stored by AuthRequired. For
// unauthenticated requests it returns a zero Caller.
func CallerFromCtx(c *fiber.Ctx) services.Caller {
	caller := services.Caller{}
	if id, ok := c.Locals("user_id").(string); ok {
		caller.ID = id
	}
	if role, ok := c.Locals("role").(string); ok {
		caller.Role = models.Role(role)
	}
	return caller
}
