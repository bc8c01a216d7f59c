package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stellarhive/account-service/internal/account/dto"
	"github.com/stellarhive/account-service/internal/account/service"
)

type AppHandler struct {
	users *service.UserService
}

func NewAppHandler(users *service.UserService) *AppHandler {
	return &AppHandler{users: users}
}

func (h *AppHandler) HealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(true)
}

func (h *AppHandler) ResendVerification(c *fiber.Ctx) error {
	var input dto.EmailInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return fail(c, err)
	}

	if err := h.users.ResendVerification(c.UserContext(), input.Email); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.Message{Message: "Verification email sent. Please check your inbox"})
}

func (h *AppHandler) RecoverPassword(c *fiber.Ctx) error {
	var input dto.EmailInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return fail(c, err)
	}

	if err := h.users.RecoverPassword(c.UserContext(), input.Email); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.Message{Message: "Password recovery email sent. Please check your inbox"})
}
