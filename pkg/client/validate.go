package client

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/shiftline-hq/shiftline-client/pkg/api"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// validatePayload checks struct tags before anything goes on the wire. Failures
// carry per-field messages in the same shape the backend uses.
func (c *Client) validatePayload(payload any) error {
	err := c.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", api.ErrInvalidArgument, err)
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], validationMessage(fe))
	}
	return fmt.Errorf("%w: %w", api.ErrInvalidArgument, api.NewError(0, "request validation failed", fields))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gtfield":
		return fmt.Sprintf("must be after %s", fieldLabel(fe.Param()))
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func fieldLabel(goName string) string {
	switch goName {
	case "StartsAt":
		return "starts_at"
	default:
		return strings.ToLower(goName)
	}
}
