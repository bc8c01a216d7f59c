package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/stellarhive/account-service/internal/account/domain"
	apperrors "github.com/stellarhive/account-service/internal/errors"
)

const currentUserKey = "currentUser"

// RequireUser resolves the bearer token to an active account and stores it in
// the request locals. Missing accounts and inactive accounts produce the same
// response as a bad token.
func (h *UserHandler) RequireUser(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return fail(c, apperrors.ErrInvalidToken)
	}

	user, err := h.users.Authenticate(c.UserContext(), token)
	if err != nil {
		return fail(c, err)
	}

	c.Locals(currentUserKey, user)

	return c.Next()
}

// RequireSuperuser gates admin endpoints; it must run after RequireUser.
func (h *UserHandler) RequireSuperuser(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil || !user.IsSuperuser {
		return fail(c, apperrors.ErrForbidden)
	}

	return c.Next()
}

func currentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(currentUserKey).(*domain.User)
	return user
}
