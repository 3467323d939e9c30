package middleware

import (
	"matchai-service/config"
	"matchai-service/model"
	"matchai-service/utils"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "userId"

func JWT() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS512",
			Key:    []byte(config.Config("JWT_ACCESS_KEY")),
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return unauthenticated(c)
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthenticated(c)
			}
			meta, err := utils.ExtractMetadata(claims)
			if err != nil {
				return unauthenticated(c)
			}
			id, err := meta.UserID()
			if err != nil {
				return unauthenticated(c)
			}
			c.Locals(userIDKey, id)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthenticated(c)
		},
	})
}

// CurrentUser returns the id resolved by JWT, 0 outside an authenticated route.
func CurrentUser(c *fiber.Ctx) uint {
	id, _ := c.Locals(userIDKey).(uint)
	return id
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status":  "error",
		"message": model.NewUnauthenticatedError().Message,
		"data":    nil,
	})
}
