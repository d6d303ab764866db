package validate

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// FieldError reports one invalid input field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// Errors is the structured list returned when validation fails.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e {
		parts = append(parts, f.Field+" ("+f.Rule+")")
	}
	return "invalid fields: " + strings.Join(parts, ", ")
}

// Struct validates an input record eagerly, before any persistence call.
// It returns nil or an Errors list with one entry per failing field.
func Struct(in interface{}) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field: strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}
