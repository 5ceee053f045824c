package errors

import (
	goerrors "errors"
	"fmt"
	"net/http"
)

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity rules")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrNotFound           = fmt.Errorf("not found")
	ErrNotChatMember      = fmt.Errorf("user is not a member of this chat")
	ErrGroupTooSmall      = fmt.Errorf("a group chat needs at least 2 other users")
	ErrNotGroupAdmin      = fmt.Errorf("only the group admin can do that")
	ErrSinkFull           = fmt.Errorf("sink buffer full")
	ErrSinkClosed         = fmt.Errorf("sink closed")
)

// HTTPStatus maps domain errors onto API status codes. Anything unmapped is
// a 500; handlers never leak raw error chains to clients.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case goerrors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case goerrors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	case goerrors.Is(err, ErrInvalidPassword), goerrors.Is(err, ErrGroupTooSmall):
		return http.StatusBadRequest
	case goerrors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case goerrors.Is(err, ErrNotChatMember), goerrors.Is(err, ErrNotGroupAdmin):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
