package controller

import (
	"matchai-service/middleware"
	"matchai-service/model"
	"matchai-service/service"

	"github.com/gofiber/fiber/v2"
)

type MatchCreateInput struct {
	UserID1 uint              `json:"userId1"`
	UserID2 uint              `json:"userId2"`
	Status  model.MatchStatus `json:"status"`
}

type MatchUpdateInput struct {
	Status model.MatchStatus `json:"status"`
}

func MatchPotential(matches *service.MatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := matches.ListPotential(c.UserContext(), middleware.CurrentUser(c))
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, users)
	}
}

func MatchList(matches *service.MatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := matches.ListForUser(c.UserContext(), middleware.CurrentUser(c))
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, list)
	}
}

func MatchCreate(matches *service.MatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := new(MatchCreateInput)
		if err := c.BodyParser(input); err != nil {
			return badInput(c)
		}

		match, err := matches.Create(c.UserContext(), middleware.CurrentUser(c), input.UserID1, input.UserID2, input.Status)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusCreated, match)
	}
}

func MatchUpdate(matches *service.MatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		input := new(MatchUpdateInput)
		if err := c.BodyParser(input); err != nil {
			return badInput(c)
		}

		match, err := matches.Transition(c.UserContext(), middleware.CurrentUser(c), id, input.Status)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, match)
	}
}
