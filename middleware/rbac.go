package middleware

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Enforcer decides whether a subject may perform act on obj.
type Enforcer interface {
	Enforce(rvals ...interface{}) (bool, error)
}

func RBAC(e Enforcer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := CurrentUser(c)
		if id == 0 {
			return unauthenticated(c)
		}

		accepted, err := e.Enforce(strconv.FormatUint(uint64(id), 10), c.Path(), c.Method())
		if err != nil {
			slog.Error("casbin enforce failed", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Internal server error",
				"data":    nil,
			})
		}

		// denied access is reported as 401
		if !accepted {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Unauthorized",
				"data":    nil,
			})
		}

		return c.Next()
	}
}
