package session

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
)

// Credentials is the email/password pair handed to Register and Login.
type Credentials struct {
	Email    string
	Password string
}

func (c Credentials) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&c.Password, validation.Required, validation.Length(6, 100)),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid credentials").
			WithCode(errors.CodeBadRequest)
	}
	return nil
}

// ValidatePassword checks a new password before it is sent to the provider.
func ValidatePassword(password string) error {
	err := validation.Validate(password, validation.Required, validation.Length(6, 100))
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid password").
			WithCode(errors.CodeBadRequest)
	}
	return nil
}
