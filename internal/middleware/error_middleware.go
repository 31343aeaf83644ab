package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/churchmanager/scheduler/internal/app/models/dto"
	"github.com/churchmanager/scheduler/internal/pkg/apperrors"
	"github.com/churchmanager/scheduler/internal/pkg/logger"
)

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetail(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

// ErrorDetail maps an error to its HTTP status and response detail
func ErrorDetail(err error) (int, *dto.ErrorDetail) {
	return errorDetail(err)
}

func errorDetail(err error) (int, *dto.ErrorDetail) {
	status, detail := classify(err)
	if field := apperrors.FieldOf(err); field != "" {
		detail.WithField(field)
	}
	return status, detail
}

func classify(err error) (int, *dto.ErrorDetail) {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found").
			WithDetails(err.Error())
	case errors.Is(err, apperrors.ErrUnknownField):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeUnknownField, "Unknown field").
			WithDetails(err.Error())
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
			WithDetails(err.Error())
	case errors.Is(err, apperrors.ErrUniquenessViolation):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Resource already exists").
			WithDetails(err.Error())
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeInvalidTransition, "Invalid status transition").
			WithDetails(err.Error())
	case apperrors.Is(err, apperrors.ErrMinistryInactive, apperrors.ErrUserNotSchedulable):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Request conflicts with current state").
			WithDetails(err.Error())
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrNotificationFailed):
		return http.StatusBadGateway, dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "Notification could not be delivered")
	case errors.Is(err, apperrors.ErrStorage):
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database error").
			WithSeverity(dto.ErrorSeverityCritical)
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}

// HandleBindingError answers a request whose body or query failed to bind
func HandleBindingError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(bindingErrorDetail(err)))
}

// HandleMalformedPayload answers a body that does not have the expected shape
func HandleMalformedPayload(c *gin.Context, err error) {
	detail := dto.NewErrorDetail(dto.ErrorCodeMalformedPayload, "Malformed payload").WithDetails(err.Error())
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(detail))
}

func bindingErrorDetail(err error) *dto.ErrorDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())
	}

	fields := dto.NewValidationErrors()
	for _, fe := range verrs {
		fields.AddError(fe.Field(), formatValidationError(fe))
	}
	return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").WithDetails(fields.Errors)
}
