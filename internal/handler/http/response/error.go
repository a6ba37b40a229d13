package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Illegal clock actions carry the reason for the caller
	var rejection *attendance.RejectionError
	if errors.As(err, &rejection) {
		Rejected(w, string(rejection.Action), rejection.Reason)
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrEmployeeIDRequired):
		Forbidden(w, "Token is not bound to an employee")
	case errors.Is(err, auth.ErrManagerAccessRequired):
		Forbidden(w, "Manager or owner role required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrIllegalClockAction):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrUnknownClockAction):
		UnprocessableEntity(w, "UNKNOWN_CLOCK_ACTION", err.Error())
	case errors.Is(err, attendance.ErrStoreUnavailable):
		slog.Error("Time log store unavailable", "error", err)
		ServiceUnavailable(w, "Attendance data is temporarily unavailable, try again")

	// Report domain errors
	case errors.Is(err, report.ErrReportGenerationFailed):
		slog.Error("Report generation failed", "error", err)
		InternalServerError(w, "Failed to generate report")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
