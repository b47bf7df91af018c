package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/session"
	"github.com/trezcool/darasa/core/user"
)

type LoginRequest struct {
	Role string `json:"role" validate:"required"`
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Role = core.CleanString(lr.Role, true /* lower */)
	if err := validate.Struct(lr); err != nil {
		return err
	}
	if _, err := user.ParseRole(lr.Role); err != nil {
		return user.NewRoleValidationError("role")
	}
	return nil
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

type NoticesResponse struct {
	Notices []session.Notice `json:"notices"`
}
