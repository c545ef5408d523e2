package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/driverwallet/shift-backend-go/internal/domain/auth"
	"github.com/driverwallet/shift-backend-go/internal/domain/ledger"
	"github.com/driverwallet/shift-backend-go/internal/domain/shift"
	"github.com/driverwallet/shift-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var tooEarly *shift.TooEarlyError
	if errors.As(err, &tooEarly) {
		ConflictWithDetails(w, tooEarly.Error(), map[string]string{
			"wait_minutes": strconv.Itoa(tooEarly.WaitMinutes),
		})
		return
	}

	var notAllowed *ledger.NotAllowedError
	if errors.As(err, &notAllowed) {
		ConflictWithDetails(w, "Orders are not allowed right now", map[string]string{
			"reason": notAllowed.Reason,
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid PIN")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTooManyAttempts):
		TooManyRequests(w, "Too many login attempts, try again later")

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrShiftOverlap):
		Conflict(w, "Shift overlaps an existing shift")
	case errors.Is(err, shift.ErrAnotherShiftActive):
		Conflict(w, "Another shift is already active")
	case errors.Is(err, shift.ErrInvalidStatus):
		Conflict(w, "Shift cannot be started in its current status")
	case errors.Is(err, shift.ErrShiftNotActive):
		Conflict(w, "Shift is not active")
	case errors.Is(err, shift.ErrShiftStateChanged):
		Conflict(w, "Shift changed while processing the request, please retry")

	// Ledger domain errors
	case errors.Is(err, ledger.ErrOrdersNotAllowed):
		Conflict(w, "Orders are not allowed right now")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
