package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, appHandler *AppHandler, authHandler *AuthHandler, userHandler *UserHandler) {
	api := app.Group("/api/v1")

	api.Get("/health-check", appHandler.HealthCheck)
	api.Post("/login", authHandler.Login)
	api.Post("/login/refresh", authHandler.Refresh)
	api.Post("/logout", authHandler.Logout)
	api.Post("/resend-verification", appHandler.ResendVerification)
	api.Post("/password-recovery", appHandler.RecoverPassword)

	users := api.Group("/users")
	users.Post("/register", userHandler.Register)
	users.Post("/verify-email", userHandler.VerifyEmail)
	users.Post("/reset-password", userHandler.ResetPassword)
	users.Post("/verify-delete", userHandler.VerifyDelete)

	users.Get("/current", userHandler.RequireUser, userHandler.GetCurrent)
	users.Put("/current", userHandler.RequireUser, userHandler.UpdateCurrent)
	users.Put("/current/password", userHandler.RequireUser, userHandler.UpdatePassword)
	users.Delete("/current", userHandler.RequireUser, userHandler.RemoveCurrent)

	// Admin-only endpoints
	users.Get("/", userHandler.RequireUser, userHandler.RequireSuperuser, userHandler.List)
	users.Post("/", userHandler.RequireUser, userHandler.RequireSuperuser, userHandler.Create)
	users.Get("/:id<int>", userHandler.RequireUser, userHandler.RequireSuperuser, userHandler.Get)
	users.Put("/:id<int>", userHandler.RequireUser, userHandler.RequireSuperuser, userHandler.Update)
	users.Delete("/:id<int>", userHandler.RequireUser, userHandler.RequireSuperuser, userHandler.Delete)
}
