package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/pkg/apperrors"
	"github.com/edunova/academia/internal/pkg/logger"
)

// HandleAPIError maps service errors onto HTTP responses. Every domain
// sentinel lands on a stable error code so clients can branch on codes
// instead of parsing messages.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	// Business rule rejections keep their own codes.
	case errors.Is(err, apperrors.ErrPrerequisitesUnmet):
		respond(c, http.StatusConflict, dto.ErrorCodePrerequisitesUnmet, err)
	case errors.Is(err, apperrors.ErrScheduleClash):
		respond(c, http.StatusConflict, dto.ErrorCodeScheduleClash, err)
	case errors.Is(err, apperrors.ErrCourseCapacityExceeded):
		respond(c, http.StatusConflict, dto.ErrorCodeCapacityExceeded, err)

	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrStudentNotFound,
		apperrors.ErrTeacherNotFound,
		apperrors.ErrCourseNotFound,
		apperrors.ErrPeriodNotFound,
		apperrors.ErrEnrollmentNotFound,
		apperrors.ErrEvaluationTypeNotFound,
		apperrors.ErrSlotNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, err)

	case apperrors.Is(err, apperrors.ErrConflict,
		apperrors.ErrResourceAlreadyExists,
		apperrors.ErrEmailAlreadyExists,
		apperrors.ErrEnrollmentExists,
		apperrors.ErrEnrollmentWithdrawn,
		apperrors.ErrEnrollmentNotGradable,
		apperrors.ErrDuplicateEvaluationName,
		apperrors.ErrAttendanceExists,
		apperrors.ErrSlotConflict):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceConflict, err)

	case apperrors.Is(err, apperrors.ErrValidationFailed,
		apperrors.ErrBadRequest,
		apperrors.ErrNoActivePeriod,
		apperrors.ErrPeriodNotActive,
		apperrors.ErrGradeOutOfRange,
		apperrors.ErrWeightOutOfRange,
		apperrors.ErrInvalidTimeSpan):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err)

	case apperrors.Is(err, apperrors.ErrPermissionDenied, apperrors.ErrTeacherNotOwner):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, err)

	case apperrors.Is(err, apperrors.ErrInvalidCredentials, apperrors.ErrAccountDisabled):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, err)
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, err)
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, err)

	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled service error")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, err error) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, err.Error())))
}
