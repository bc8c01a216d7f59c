package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stellarhive/account-service/internal/account/domain"
	"github.com/stellarhive/account-service/internal/account/dto"
	"github.com/stellarhive/account-service/internal/account/service"
	apperrors "github.com/stellarhive/account-service/internal/errors"
)

const defaultPageLimit = 100

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return fail(c, err)
	}

	user, err := h.users.Register(c.UserContext(), input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewUserOut(user))
}

func (h *UserHandler) GetCurrent(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(dto.NewUserOut(currentUser(c)))
}

func (h *UserHandler) UpdateCurrent(c *fiber.Ctx) error {
	var input dto.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return fail(c, err)
	}

	user, err := h.users.UpdateProfile(c.UserContext(), currentUser(c), input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewUserOut(user))
}

func (h *UserHandler) UpdatePassword(c *fiber.Ctx) error {
	var input dto.UpdatePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return fail(c, err)
	}

	if err := h.users.ChangePassword(c.UserContext(), currentUser(c), input); err != nil {
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveCurrent does not delete anything; it emails a confirmation link to
// the account owner and reports Accepted.
func (h *UserHandler) RemoveCurrent(c *fiber.Ctx) error {
	h.users.RequestRemoval(c.UserContext(), currentUser(c))
	return c.SendStatus(fiber.StatusAccepted)
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultPageLimit)
	offset := c.QueryInt("offset", 0)

	users, total, err := h.users.ListUsers(c.UserContext(), limit, offset)
	if err != nil {
		return fail(c, err)
	}

	items := make([]dto.UserOutAdmin, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserOutAdmin(&users[i]))
	}

	return c.Status(fiber.StatusOK).JSON(dto.UserPage{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}

	user, err := h.users.GetUser(c.UserContext(), int64(id))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewUserOutAdmin(user))
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var input dto.AdminCreateInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return fail(c, err)
	}

	user, err := h.users.CreateUser(c.UserContext(), input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewUserOutAdmin(user))
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}

	var input dto.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return fail(c, err)
	}

	user, err := h.users.UpdateUser(c.UserContext(), int64(id), input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewUserOut(user))
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}

	if err := h.users.DeleteUser(c.UserContext(), int64(id)); err != nil {
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) VerifyEmail(c *fiber.Ctx) error {
	user, err := h.userFromEmailToken(c)
	if err != nil {
		return fail(c, err)
	}

	if err := h.users.VerifyEmail(c.UserContext(), user); err != nil {
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	var input dto.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return fail(c, err)
	}

	user, err := h.userFromEmailToken(c)
	if err != nil {
		return fail(c, err)
	}

	if err := h.users.ResetPassword(c.UserContext(), user, input); err != nil {
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) VerifyDelete(c *fiber.Ctx) error {
	user, err := h.userFromEmailToken(c)
	if err != nil {
		return fail(c, err)
	}

	if err := h.users.ConfirmRemoval(c.UserContext(), user); err != nil {
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) userFromEmailToken(c *fiber.Ctx) (*domain.User, error) {
	token := c.Query("token")
	if token == "" {
		return nil, apperrors.ErrInvalidToken
	}

	return h.users.UserFromEmailToken(c.UserContext(), token)
}
