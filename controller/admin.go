package controller

import (
	"matchai-service/realtime"

	"github.com/gofiber/fiber/v2"
)

func AdminConnections(registry *realtime.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		online := registry.Online()
		return success(c, fiber.StatusOK, fiber.Map{
			"count": len(online),
			"users": online,
		})
	}
}
