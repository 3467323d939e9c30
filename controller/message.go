package controller

import (
	"matchai-service/middleware"
	"matchai-service/service"

	"github.com/gofiber/fiber/v2"
)

type MessageCreateInput struct {
	Content string `json:"content"`
}

func MessageList(messages *service.MessageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := paramID(c, "matchId")
		if err != nil {
			return fail(c, err)
		}

		list, err := messages.List(c.UserContext(), middleware.CurrentUser(c), matchID)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, list)
	}
}

func MessageCreate(messages *service.MessageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := paramID(c, "matchId")
		if err != nil {
			return fail(c, err)
		}
		input := new(MessageCreateInput)
		if err := c.BodyParser(input); err != nil {
			return badInput(c)
		}

		message, err := messages.Post(c.UserContext(), middleware.CurrentUser(c), matchID, input.Content)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusCreated, message)
	}
}
