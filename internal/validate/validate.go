// Package validate runs struct-tag validation and translates every
// violation into the API's property/message pairs.
package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Violation describes a single failed constraint on one property.
type Violation struct {
	Property string `json:"property"`
	Message  string `json:"message"`
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	// Report properties under their JSON names, not Go field names.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return val
}

// Struct validates s and returns all violations, not just the first.
// A nil return means s passed every constraint.
func Struct(s any) []Violation {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []Violation{{Property: "", Message: err.Error()}}
	}

	out := make([]Violation, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, Violation{
			Property: fe.Field(),
			Message:  message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	name := displayName(fe.Field())

	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " is not a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot be longer than %s characters", name, fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s failed %s validation (%s)", name, fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
	}
}

func displayName(property string) string {
	if property == "" {
		return property
	}
	return strings.ToUpper(property[:1]) + property[1:]
}
