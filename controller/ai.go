package controller

import (
	"matchai-service/llm"
	"matchai-service/middleware"
	"matchai-service/model"
	"matchai-service/service"

	"github.com/gofiber/fiber/v2"
)

// AiGenerateProfile is public so the signup form can use it.
func AiGenerateProfile(ai *service.AIService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := new(llm.ProfileInput)
		if err := c.BodyParser(input); err != nil {
			return badInput(c)
		}

		out, err := ai.GenerateProfile(c.UserContext(), *input)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, out)
	}
}

func AiConversationStarters(ai *service.AIService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := paramID(c, "matchId")
		if err != nil {
			return fail(c, err)
		}

		out, err := ai.ConversationStarters(c.UserContext(), middleware.CurrentUser(c), matchID)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, out)
	}
}

func AiVideoDateTips(ai *service.AIService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := paramID(c, "matchId")
		if err != nil {
			return fail(c, err)
		}

		out, err := ai.VideoDateTips(c.UserContext(), middleware.CurrentUser(c), matchID)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, out)
	}
}

func AiOptimalTimes(ai *service.AIService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := ai.OptimalTimes(c.UserContext())
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, out)
	}
}

func AiSuggestionList(ai *service.AIService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind := model.SuggestionType(c.Query("type"))

		list, err := ai.Suggestions(c.UserContext(), middleware.CurrentUser(c), kind)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, list)
	}
}

func AiSuggestionUsed(ai *service.AIService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}

		out, err := ai.MarkSuggestionUsed(c.UserContext(), middleware.CurrentUser(c), id)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, out)
	}
}
