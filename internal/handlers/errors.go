package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recipebox/internal/apperr"
)

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// url_or_blank accepts "" so an optional link can be cleared.
	_ = v.RegisterValidation("url_or_blank", func(fl validator.FieldLevel) bool {
		link := fl.Field().String()
		return link == "" || v.Var(link, "url") == nil
	})
	return v
}

// bind parses the request body into out and validates its struct tags.
func bind(c *fiber.Ctx, v *validator.Validate, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.FieldError("non_field_errors", fmt.Sprintf("Invalid request body: %v", err))
	}
	if err := v.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fmt.Errorf("validate request: %w", err)
		}
		errorMessages := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			errorMessages[fieldPath(e)] = fieldMessage(e)
		}
		return apperr.Validation(errorMessages)
	}
	return nil
}

// fieldPath drops the struct name from the namespace, e.g. tags[0].name.
func fieldPath(e validator.FieldError) string {
	parts := strings.SplitN(e.Namespace(), ".", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return e.Field()
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url", "url_or_blank":
		return "Enter a valid URL."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", e.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", e.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", e.Param())
	default:
		return fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
}

// pathID reads the :id parameter. Anything that is not a positive integer
// cannot address a row and is reported as not found.
func pathID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.NotFound(fmt.Errorf("invalid id %q", c.Params("id")))
	}
	return uint(id), nil
}

// respondError renders err as {"code","error","fields"}. Unexpected errors
// are logged and hidden behind a generic internal error.
func respondError(c *fiber.Ctx, log *zap.SugaredLogger, err error) error {
	appErr := apperr.From(err)
	if appErr.Code == apperr.CodeInternal {
		log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(apperr.ErrInternal)
	}
	if appErr.Code == apperr.CodeIntegrity {
		log.Debugw("integrity violation", "path", c.Path(), "error", err)
	}
	return c.Status(appErr.Status()).JSON(appErr)
}
