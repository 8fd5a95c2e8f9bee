package auth

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// RegisterPayload is the input to Register
type RegisterPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

func (p RegisterPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&p.Username, validation.Length(0, 64)),
	)
}

// ResetPasswordPayload is the input to ResetPassword
type ResetPasswordPayload struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

func (p ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Code, validation.Required, validation.Length(DefaultCodeLength, DefaultCodeLength)),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 128)),
	)
}

// ConfirmEmailChangePayload is the input to ConfirmEmailChange
type ConfirmEmailChangePayload struct {
	Code     string `json:"code"`
	Password string `json:"password"`
}

func (p ConfirmEmailChangePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Code, validation.Required, validation.Length(DefaultCodeLength, DefaultCodeLength)),
		validation.Field(&p.Password, validation.Required),
	)
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}
