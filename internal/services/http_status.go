package services

import (
	"errors"
	"net/http"

	ghost_errors "github.com/Jadeja143/ghost/pkg/errors"
)

// HTTPStatus maps service errors onto response statuses at the handler
// boundary.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ghost_errors.ErrInvalidInput),
		errors.Is(err, ghost_errors.ErrInvalidParticipants),
		errors.Is(err, ghost_errors.ErrInvalidContent):
		return http.StatusBadRequest
	case errors.Is(err, ghost_errors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ghost_errors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ghost_errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ghost_errors.ErrAlreadyExists), errors.Is(err, ghost_errors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ghost_errors.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode maps service errors onto the short machine-readable reasons
// carried in error response bodies.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ghost_errors.ErrInvalidParticipants):
		return "INVALID_PARTICIPANTS"
	case errors.Is(err, ghost_errors.ErrInvalidContent):
		return "INVALID_CONTENT"
	case errors.Is(err, ghost_errors.ErrInvalidInput):
		return "INVALID_REQUEST"
	case errors.Is(err, ghost_errors.ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ghost_errors.ErrForbidden):
		return "NOT_PARTICIPANT"
	case errors.Is(err, ghost_errors.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ghost_errors.ErrAlreadyExists), errors.Is(err, ghost_errors.ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ghost_errors.ErrRateLimited):
		return "RATE_LIMITED"
	default:
		return "INTERNAL_ERROR"
	}
}
