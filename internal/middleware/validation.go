package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/churchmanager/scheduler/internal/app/models"
)

// RegisterValidators adds the rolecode and statuscode tags to gin's validator
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("rolecode", validateRoleCode); err != nil {
		return err
	}
	return v.RegisterValidation("statuscode", validateStatusCode)
}

func validateRoleCode(fl validator.FieldLevel) bool {
	return models.RoleCode(fl.Field().String()).IsValid()
}

func validateStatusCode(fl validator.FieldLevel) bool {
	return models.StatusCode(fl.Field().String()).IsValid()
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "uuid":
		return e.Field() + " must be a UUID"
	case "datetime":
		return e.Field() + " must be a date formatted as " + e.Param()
	case "rolecode":
		return e.Field() + " must be one of: " + joinRoleCodes()
	case "statuscode":
		return e.Field() + " must be one of: " + joinStatusCodes()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}

func joinRoleCodes() string {
	codes := make([]string, len(models.RoleCodes))
	for i, c := range models.RoleCodes {
		codes[i] = string(c)
	}
	return strings.Join(codes, ", ")
}

func joinStatusCodes() string {
	codes := make([]string, len(models.StatusCodes))
	for i, c := range models.StatusCodes {
		codes[i] = string(c)
	}
	return strings.Join(codes, ", ")
}
