package session

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ternarybob/bosbiss/internal/models"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateForm checks a trimmed form. The returned error carries the
// analysis message and the first failing field.
func (s *Session) validateForm(form models.StockForm) *ValidationError {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}

	field := ""
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field = fieldErrs[0].Field()
	}
	return &ValidationError{Field: field, Message: MsgAnalysisFields}
}
