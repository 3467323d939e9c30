package controller

import (
	"time"

	"matchai-service/middleware"
	"matchai-service/model"
	"matchai-service/service"

	"github.com/gofiber/fiber/v2"
)

type VideoCallCreateInput struct {
	ScheduledTime *time.Time `json:"scheduledTime"`
}

type VideoCallUpdateInput struct {
	Status   model.VideoCallStatus `json:"status"`
	Duration *int                  `json:"duration"`
}

func VideoCallList(calls *service.VideoCallService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := paramID(c, "matchId")
		if err != nil {
			return fail(c, err)
		}

		list, err := calls.List(c.UserContext(), middleware.CurrentUser(c), matchID)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, list)
	}
}

func VideoCallCreate(calls *service.VideoCallService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := paramID(c, "matchId")
		if err != nil {
			return fail(c, err)
		}
		input := new(VideoCallCreateInput)
		if err := c.BodyParser(input); err != nil {
			return badInput(c)
		}

		call, err := calls.Schedule(c.UserContext(), middleware.CurrentUser(c), matchID, input.ScheduledTime)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusCreated, call)
	}
}

func VideoCallUpdate(calls *service.VideoCallService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		input := new(VideoCallUpdateInput)
		if err := c.BodyParser(input); err != nil {
			return badInput(c)
		}

		call, err := calls.Update(c.UserContext(), middleware.CurrentUser(c), id, input.Status, input.Duration)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, call)
	}
}
