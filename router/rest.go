package router

import (
	"matchai-service/controller"
	"matchai-service/media"
	"matchai-service/middleware"
	"matchai-service/realtime"
	"matchai-service/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services is everything the REST routes delegate to.
type Services struct {
	Auth       *service.AuthService
	Users      *service.UserService
	Matches    *service.MatchService
	Messages   *service.MessageService
	VideoCalls *service.VideoCallService
	AI         *service.AIService
	// Media is optional, the upload route is not mounted without it.
	Media    *media.Presigner
	Registry *realtime.Registry
	Enforcer middleware.Enforcer
	Gatherer prometheus.Gatherer
}

func Rest(app *fiber.App, s Services) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": nil,
			"data":    fiber.Map{"connections": s.Registry.Len()},
		})
	})
	if s.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api", logger.New())

	jwt := middleware.JWT()
	otp := middleware.OTP()
	rbac := middleware.RBAC(s.Enforcer)

	// Auth
	auth := api.Group("/auth")
	auth.Post("/register", controller.AuthSignup(s.Auth))
	auth.Post("/login", controller.AuthSignin(s.Auth))
	auth.Post("/token/renew", controller.AuthTokenRenew(s.Auth))
	auth.Get("/logout", jwt, otp, rbac, controller.AuthLogout(s.Auth))
	auth.Get("/me", jwt, otp, rbac, controller.AuthMe(s.Auth))
	auth.Post("/2fa/secret", jwt, otp, controller.AuthOtpSecret(s.Auth))
	auth.Post("/2fa/verify", jwt, otp, controller.AuthOtpVerify(s.Auth))
	auth.Post("/2fa/validate", jwt, controller.AuthOtpValidate(s.Auth))
	auth.Post("/2fa/disable", jwt, otp, controller.AuthOtpDisable(s.Auth))

	// public, registered before the guarded /ai group
	api.Post("/ai/generate-profile", controller.AiGenerateProfile(s.AI))

	// User
	user := api.Group("/users", jwt, otp, rbac)
	user.Get("/:id", controller.UserProfile(s.Users))
	user.Patch("/:id", controller.UserUpdate(s.Users))
	if s.Media != nil {
		user.Post("/:id/media", controller.UserMedia(s.Media))
	}

	// Matches
	matches := api.Group("/matches", jwt, otp, rbac)
	matches.Get("/potential", controller.MatchPotential(s.Matches))
	matches.Get("", controller.MatchList(s.Matches))
	matches.Post("", controller.MatchCreate(s.Matches))
	matches.Patch("/:id", controller.MatchUpdate(s.Matches))
	matches.Get("/:matchId/messages", controller.MessageList(s.Messages))
	matches.Post("/:matchId/messages", controller.MessageCreate(s.Messages))
	matches.Get("/:matchId/video-calls", controller.VideoCallList(s.VideoCalls))
	matches.Post("/:matchId/video-calls", controller.VideoCallCreate(s.VideoCalls))
	matches.Get("/:matchId/conversation-starters", controller.AiConversationStarters(s.AI))
	matches.Get("/:matchId/video-date-tips", controller.AiVideoDateTips(s.AI))

	api.Patch("/video-calls/:id", jwt, otp, rbac, controller.VideoCallUpdate(s.VideoCalls))
	api.Get("/optimal-times", jwt, otp, rbac, controller.AiOptimalTimes(s.AI))

	// AI suggestions
	ai := api.Group("/ai", jwt, otp, rbac)
	ai.Get("/suggestions", controller.AiSuggestionList(s.AI))
	ai.Patch("/suggestions/:id/used", controller.AiSuggestionUsed(s.AI))

	// Admin
	admin := api.Group("/admin", jwt, otp, rbac)
	admin.Get("/connections", controller.AdminConnections(s.Registry))
}
