// Package validation runs struct-tag validation on request DTOs and reports
// violations per JSON field.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"customer_backend/internal/api"
	"customer_backend/internal/shared/cnpj"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "cnpj", func(fl validator.FieldLevel) bool {
		return cnpj.IsValid(fl.Field().String())
	})
	mustRegister(v, "role", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "admin", "user":
			return true
		}
		return false
	})
	mustRegister(v, "customer_status", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "ativo", "inativo":
			return true
		}
		return false
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Struct validates s and returns one FieldError per violated rule, or nil when s is valid.
func Struct(s any) []api.FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []api.FieldError{{Field: "", Reason: "invalid"}}
	}

	out := make([]api.FieldError, 0, len(ve))
	for _, fe := range ve {
		out = append(out, api.FieldError{
			Field:  fieldPath(fe),
			Reason: fe.Tag(),
			Param:  fe.Param(),
		})
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace: "CreateReq.tags[0]" -> "tags[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}
