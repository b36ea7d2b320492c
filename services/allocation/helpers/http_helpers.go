package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"stall-allocation/internal/allocationerrors"
	"stall-allocation/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, allocationerrors.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, allocationerrors.ErrSessionNotFound):
		return http.StatusNotFound, "session not found"
	case errors.Is(err, allocationerrors.ErrStallNotFound):
		return http.StatusNotFound, "stall not found"
	case errors.Is(err, allocationerrors.ErrNoWinner):
		return http.StatusNotFound, "winner not selected yet"
	case errors.Is(err, allocationerrors.ErrParticipantNotFound):
		return http.StatusNotFound, "participant not found"
	case errors.Is(err, allocationerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, allocationerrors.ErrSessionNotOpen):
		return http.StatusConflict, "session not open"
	case errors.Is(err, allocationerrors.ErrSessionExpired):
		return http.StatusConflict, "session expired"
	case errors.Is(err, allocationerrors.ErrAlreadyRegistered):
		return http.StatusConflict, "applicant already registered"
	case errors.Is(err, allocationerrors.ErrBranchCapExceeded):
		return http.StatusConflict, "branch registration cap exceeded"
	case errors.Is(err, allocationerrors.ErrSessionFull):
		return http.StatusConflict, "session is full"
	case errors.Is(err, allocationerrors.ErrNotRegistered):
		return http.StatusConflict, "bidder not registered for session"
	case errors.Is(err, allocationerrors.ErrNotParticipant):
		return http.StatusConflict, "applicant not registered for session"
	case errors.Is(err, allocationerrors.ErrStallHasOpenSession):
		return http.StatusConflict, "stall already has an open session"
	case errors.Is(err, allocationerrors.ErrInvalidTransition):
		return http.StatusConflict, "invalid session state transition"
	case errors.Is(err, allocationerrors.ErrExtensionNotAllowed):
		return http.StatusConflict, "extension not allowed"
	case errors.Is(err, allocationerrors.ErrExtensionLimitExceeded):
		return http.StatusConflict, "maximum total extension exceeded"
	case errors.Is(err, allocationerrors.ErrConcurrencyConflict):
		return http.StatusServiceUnavailable, "concurrent update, please retry"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError writes the mapped error response and logs it. Admission
// rejections carry their reason code and log at info level; server faults
// log at error level.
func RespondError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)

	logFields := map[string]any{"handler": handlerName, "error": err.Error(), "status": status}
	for k, v := range fields {
		logFields[k] = v
	}

	if reason, ok := allocationerrors.ReasonOf(err); ok {
		utils.JSONRejection(c, status, err, message, string(reason))
		logFields["reason"] = string(reason)
		utils.Info(handlerName+": request rejected", logFields)
		return
	}

	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", logFields)
		return
	}
	utils.Warn(handlerName+": request failed", logFields)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
