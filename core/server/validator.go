package server

import (
	"meetspot/core/errors"

	"github.com/go-playground/validator/v10"
)

// Validator plugs go-playground/validator into echo so controllers can
// call ctx.Validate(&req) after binding.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return errors.NewAppError(errors.ErrInvalidRequestData, err.Error(), err)
	}
	return nil
}
