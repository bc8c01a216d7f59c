package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/stellarhive/account-service/internal/account/domain"
)

// UserOut is the public view of an account.
type UserOut struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

// UserOutAdmin additionally exposes the account flags.
type UserOutAdmin struct {
	UserOut
	IsActive    bool `json:"is_active"`
	IsSuperuser bool `json:"is_superuser"`
}

type UserPage struct {
	Items  []UserOutAdmin `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// UpdateUserInput patches name and email only; empty fields are left as-is.
// Password, activation and role flags are never mutable through this path.
type UpdateUserInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (in UpdateUserInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FirstName, validation.Length(1, 100)),
		validation.Field(&in.LastName, validation.Length(1, 100)),
		validation.Field(&in.Email, validation.Length(0, 100), is.Email),
	)
}

func NewUserOut(u *domain.User) UserOut {
	return UserOut{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
	}
}

func NewUserOutAdmin(u *domain.User) UserOutAdmin {
	return UserOutAdmin{
		UserOut:     NewUserOut(u),
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
	}
}
