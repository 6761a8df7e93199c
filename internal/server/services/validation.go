package services

import (
	"fmt"

	"github.com/dmitrijs2005/gophaccounts/internal/common"
	"github.com/dmitrijs2005/gophaccounts/internal/server/models"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
	maxNameLength     = 255
	maxEmailLength    = 254
)

var roleRule = validation.By(func(value any) error {
	var r models.Role
	switch v := value.(type) {
	case models.Role:
		r = v
	case *models.Role:
		if v == nil {
			return nil
		}
		r = *v
	}
	if r != "" && !r.Valid() {
		return validation.NewError("validation_role", "must be user or admin")
	}
	return nil
})

func invalidInput(err error) error {
	return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
}

func validateSignup(in models.SignupInput) error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, validation.Length(3, maxEmailLength), is.EmailFormat),
		validation.Field(&in.Password, validation.Required, validation.Length(minPasswordLength, maxPasswordLength)),
		validation.Field(&in.Name, validation.Length(0, maxNameLength)),
		validation.Field(&in.Surname, validation.Length(0, maxNameLength)),
		validation.Field(&in.Role, roleRule),
	)
	if err != nil {
		return invalidInput(err)
	}
	return nil
}

func validateUpdate(upd models.UserUpdate) error {
	err := validation.ValidateStruct(&upd,
		validation.Field(&upd.Email, validation.NilOrNotEmpty, validation.Length(3, maxEmailLength), is.EmailFormat),
		validation.Field(&upd.Name, validation.Length(0, maxNameLength)),
		validation.Field(&upd.Surname, validation.Length(0, maxNameLength)),
		validation.Field(&upd.Role, roleRule),
	)
	if err != nil {
		return invalidInput(err)
	}
	return nil
}
