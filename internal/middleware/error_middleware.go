package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/convenia/convenia-backend/internal/app/models/dto"
	"github.com/convenia/convenia-backend/internal/pkg/apperrors"
	"github.com/convenia/convenia-backend/internal/pkg/logger"
)

// HandleAPIError maps an application error to an HTTP response. Controllers
// funnel every error through here so the mapping lives in one place.
func HandleAPIError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		detail := dto.HandleValidationError(validationErrs)
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	status, detail := classifyError(err)

	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) && customErr.Message != "" {
		detail.Message = customErr.Message
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
	}

	c.JSON(status, dto.NewErrorResponse(detail))
}

func classifyError(err error) (int, *dto.ErrorDetail) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized,
			dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid email or password")

	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized,
			dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token has expired")

	case errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrTokenRevoked):
		return http.StatusUnauthorized,
			dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Token is not valid")

	case errors.Is(err, apperrors.ErrTokenNotFound):
		return http.StatusUnauthorized,
			dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Token not found")

	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden,
			dto.NewErrorDetail(dto.ErrorCodeForbidden, "You do not have permission to perform this action")

	case errors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound,
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "User not found")

	case errors.Is(err, apperrors.ErrRequestNotFound):
		return http.StatusNotFound,
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Request not found")

	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound,
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")

	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusConflict,
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "A user with this email already exists")

	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict,
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Conflict")

	case errors.Is(err, apperrors.ErrInvalidStatus):
		return http.StatusBadRequest,
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request status")

	case errors.Is(err, apperrors.ErrInvalidRequestType):
		return http.StatusBadRequest,
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request type")

	case errors.Is(err, apperrors.ErrFileTypeNotAllowed):
		return http.StatusBadRequest,
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File type is not allowed")

	case errors.Is(err, apperrors.ErrTooManyFiles):
		return http.StatusBadRequest,
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Too many files attached")

	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest,
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")

	default:
		return http.StatusInternalServerError,
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "An unexpected error occurred")
	}
}
