package controller

import (
	"matchai-service/middleware"
	"matchai-service/service"

	"github.com/gofiber/fiber/v2"
)

type AuthLoginInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type AuthRenewTokenInput struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthOtpSecretInput struct {
	Password string `json:"password"`
}

type AuthOtpVerifyInput struct {
	Token string `json:"token"`
}

type AuthOtpValidateInput struct {
	Token string `json:"token"`
}

type AuthOtpDisableInput struct {
	Password string `json:"password"`
	Token    string `json:"token"`
}

func sessionData(s *service.Session) fiber.Map {
	data := fiber.Map{
		"access":  s.Tokens.Access,
		"refresh": s.Tokens.Refresh,
		"2fa":     s.Otp,
	}
	if s.User != nil {
		data["user"] = s.User
	}
	return data
}

func AuthSignup(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := new(service.RegisterInput)
		if err := c.BodyParser(input); err != nil {
			return badInput(c)
		}

		session, err := auth.Register(c.UserContext(), *input)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusCreated, sessionData(session))
	}
}

func AuthSignin(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := new(AuthLoginInput)
		if err := c.BodyParser(input); err != nil {
			return badInput(c)
		}

		session, err := auth.Login(c.UserContext(), input.Login, input.Password)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, sessionData(session))
	}
}

func AuthTokenRenew(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := new(AuthRenewTokenInput)
		if err := c.BodyParser(input); err != nil {
			return badInput(c)
		}

		session, err := auth.Renew(c.UserContext(), input.RefreshToken)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, sessionData(session))
	}
}

func AuthLogout(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := auth.Logout(c.UserContext(), middleware.CurrentUser(c)); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Logged out successfully",
			"data":    nil,
		})
	}
}

func AuthMe(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.Me(c.UserContext(), middleware.CurrentUser(c))
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, user)
	}
}

func AuthOtpSecret(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := new(AuthOtpSecretInput)
		if err := c.BodyParser(input); err != nil {
			return badInput(c)
		}

		secret, err := auth.OtpSecret(c.UserContext(), middleware.CurrentUser(c), input.Password)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, secret)
	}
}

func AuthOtpVerify(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := new(AuthOtpVerifyInput)
		if err := c.BodyParser(input); err != nil {
			return badInput(c)
		}

		if err := auth.OtpVerify(c.UserContext(), middleware.CurrentUser(c), input.Token); err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, nil)
	}
}

func AuthOtpValidate(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := new(AuthOtpValidateInput)
		if err := c.BodyParser(input); err != nil {
			return badInput(c)
		}

		session, err := auth.OtpValidate(c.UserContext(), middleware.CurrentUser(c), input.Token)
		if err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, fiber.Map{
			"access":  session.Tokens.Access,
			"refresh": session.Tokens.Refresh,
		})
	}
}

func AuthOtpDisable(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := new(AuthOtpDisableInput)
		if err := c.BodyParser(input); err != nil {
			return badInput(c)
		}

		if err := auth.OtpDisable(c.UserContext(), middleware.CurrentUser(c), input.Password, input.Token); err != nil {
			return fail(c, err)
		}
		return success(c, fiber.StatusOK, nil)
	}
}
