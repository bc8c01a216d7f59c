package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// LoginInput is submitted as an OAuth2-style password form, hence the
// "username" field carrying the email address.
type LoginInput struct {
	Email    string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (in LoginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required),
		validation.Field(&in.Password, validation.Required),
	)
}
