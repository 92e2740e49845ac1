// Package validator plugs go-playground/validator into echo's binding flow.
package validator

import (
	domainerrors "agrilink/internal/domain/errors"

	playground "github.com/go-playground/validator/v10"
)

// CustomValidator adapts the validator library to echo.Validator.
type CustomValidator struct {
	validate *playground.Validate
}

// New creates the validator used by the HTTP server.
func New() *CustomValidator {
	return &CustomValidator{
		validate: playground.New(playground.WithRequiredStructEnabled()),
	}
}

// Validate checks struct tags and maps failures onto the application error
// taxonomy so the error middleware renders them as 400s.
func (v *CustomValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
