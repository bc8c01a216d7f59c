package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type EmailInput struct {
	Email string `json:"email"`
}

func (in EmailInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, validation.Length(1, 100), is.Email),
	)
}

type Message struct {
	Message string `json:"message"`
}
