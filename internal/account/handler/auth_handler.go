package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/stellarhive/account-service/internal/account/dto"
	"github.com/stellarhive/account-service/internal/account/service"
	apperrors "github.com/stellarhive/account-service/internal/errors"
)

const refreshCookieName = "refresh_token"

type AuthHandler struct {
	users      *service.UserService
	refreshTTL time.Duration
}

func NewAuthHandler(users *service.UserService, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{users: users, refreshTTL: refreshTTL}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return fail(c, err)
	}

	accessToken, refreshToken, err := h.users.Login(c.UserContext(), input)
	if err != nil {
		return fail(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		MaxAge:   int(h.refreshTTL.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(fiber.StatusOK).JSON(dto.NewTokenResponse(accessToken))
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(refreshCookieName)
	if refreshToken == "" {
		return fail(c, apperrors.ErrInvalidToken)
	}

	accessToken, err := h.users.Refresh(c.UserContext(), refreshToken)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewTokenResponse(accessToken))
}

// Logout clears the refresh cookie. Access tokens already handed out stay
// valid until their expiry; there is no server-side registry to revoke them.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
		Secure:   true,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(fiber.StatusOK).JSON(dto.Message{Message: "logged out"})
}
