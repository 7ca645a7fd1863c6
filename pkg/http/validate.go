package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// ReadAndValidateRequest binds query/body into req, applies struct
// defaults and validates. The non-nil return value is ready to hand to
// BadRequestResponse.
func ReadAndValidateRequest(c echo.Context, req interface{}) interface{} {
	if err := c.Bind(req); err != nil {
		return describeError(err)
	}
	if err := defaults.Set(req); err != nil {
		return describeError(err)
	}
	if err := validate.StructCtx(c.Request().Context(), req); err != nil {
		return describeError(err)
	}
	return nil
}

func describeError(err error) interface{} {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		out := make([]ValidationError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			out = append(out, ValidationError{
				Code:    "ERR_" + strings.ToUpper(fe.Tag()),
				Field:   fe.Field(),
				Message: fieldMessage(fe),
				Params:  fieldParams(fe),
			})
		}
		return out
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return []ValidationError{{Code: "ERR_UNKNOWN", Message: fmt.Sprintf("%v", he.Message)}}
	}
	return []ValidationError{{Code: "ERR_UNKNOWN", Message: err.Error()}}
}

func fieldMessage(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}
		if fe.Type().Kind() == reflect.String {
			return fmt.Sprintf("%s must be %s %s characters", field, bound, param)
		}
		return fmt.Sprintf("%s must be %s %s", field, bound, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

func fieldParams(fe validator.FieldError) map[string]interface{} {
	switch fe.Tag() {
	case "min", "gte":
		return map[string]interface{}{"min": fe.Param()}
	case "max", "lte":
		return map[string]interface{}{"max": fe.Param()}
	case "gt", "lt":
		return map[string]interface{}{"value": fe.Param()}
	case "oneof":
		return map[string]interface{}{"options": strings.Split(fe.Param(), " ")}
	default:
		return nil
	}
}
