package booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Ledger fields are pipe separated, one record per line.
	_ = v.RegisterValidation("ledgersafe", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "|\r\n")
	})
	return v
}

func (s *BookingService) validateInput(input CreateBookingInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		fields[fe.Field()] = errorMessage(fe)
	}
	return &domain.ValidationError{Fields: fields}
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Minimum value is %s", fe.Param())
	case "ledgersafe":
		return "Must not contain '|' or line breaks"
	default:
		return fmt.Sprintf("Invalid %s field", fe.Field())
	}
}
