package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"

	apperrors "github.com/stellarhive/account-service/internal/errors"
)

type UpdatePasswordInput struct {
	OldPassword  string `json:"old_password"`
	NewPassword1 string `json:"new_password_1"`
	NewPassword2 string `json:"new_password_2"`
}

func (in UpdatePasswordInput) Validate() error {
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.OldPassword, validation.Required, validation.Length(8, 40)),
		validation.Field(&in.NewPassword1, validation.Required, validation.Length(8, 40)),
		validation.Field(&in.NewPassword2, validation.Required, validation.Length(8, 40)),
	); err != nil {
		return err
	}
	if in.NewPassword1 != in.NewPassword2 {
		return apperrors.ErrPasswordMismatch
	}
	if in.NewPassword1 == in.OldPassword {
		return apperrors.ErrSamePassword
	}
	return nil
}

type ResetPasswordInput struct {
	NewPassword1 string `json:"new_password_1"`
	NewPassword2 string `json:"new_password_2"`
}

func (in ResetPasswordInput) Validate() error {
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.NewPassword1, validation.Required, validation.Length(8, 40)),
		validation.Field(&in.NewPassword2, validation.Required, validation.Length(8, 40)),
	); err != nil {
		return err
	}
	if in.NewPassword1 != in.NewPassword2 {
		return apperrors.ErrPasswordMismatch
	}
	return nil
}
