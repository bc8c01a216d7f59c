package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Email, validation.Required, validation.Length(1, 100), is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(8, 40)),
	)
}

// AdminCreateInput is the administrative creation payload. Unlike
// self-registration it may set the account flags directly.
type AdminCreateInput struct {
	RegisterInput
	IsActive    bool `json:"is_active"`
	IsStaff     bool `json:"is_staff"`
	IsSuperuser bool `json:"is_superuser"`
}

func (in AdminCreateInput) Validate() error {
	return in.RegisterInput.Validate()
}
