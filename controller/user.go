package controller

import (
	"matchai-service/media"
	"matchai-service/middleware"
	"matchai-service/service"

	"github.com/gofiber/fiber/v2"
)

type UserMediaInput struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

func UserProfile(users *service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}

		user, err := users.Get(c.UserContext(), id)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, user)
	}
}

func UserUpdate(users *service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		input := new(service.UserUpdate)
		if err := c.BodyParser(input); err != nil {
			return badInput(c)
		}

		user, err := users.Update(c.UserContext(), middleware.CurrentUser(c), id, *input)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, user)
	}
}

// UserMedia hands out a presigned upload URL for the profile video.
func UserMedia(presigner *media.Presigner) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		input := new(UserMediaInput)
		if err := c.BodyParser(input); err != nil {
			return badInput(c)
		}

		upload, err := presigner.ProfileUpload(c.UserContext(), middleware.CurrentUser(c), id, input.FileName, input.ContentType)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, upload)
	}
}
