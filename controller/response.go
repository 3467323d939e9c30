package controller

import (
	"errors"
	"log/slog"

	"matchai-service/model"

	"github.com/gofiber/fiber/v2"
)

func success(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "success",
		"message": nil,
		"data":    data,
	})
}

// fail writes err in the response envelope. Only model errors carry their
// message to the client.
func fail(c *fiber.Ctx, err error) error {
	var merr *model.Error
	if !errors.As(err, &merr) {
		merr = model.NewInternalError(err)
	}

	status := fiber.StatusInternalServerError
	message := "Internal server error"
	var data any

	switch merr.Kind {
	case model.KindValidation:
		status, message = fiber.StatusBadRequest, merr.Message
		if len(merr.Fields) > 0 {
			data = merr.Fields
		}
	case model.KindUnauthenticated, model.KindUnauthorized:
		status, message = fiber.StatusUnauthorized, merr.Message
	case model.KindNotFound:
		status, message = fiber.StatusNotFound, merr.Message
	default:
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"data":    data,
	})
}

func badInput(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  "error",
		"message": "Review your input",
		"data":    nil,
	})
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, model.NewValidationError("Invalid "+name, map[string]string{name: "must be a positive integer"})
	}
	return uint(id), nil
}
