// Package apperr carries business-rule failures from the store up to the HTTP
// layer together with the status code they should be reported with.
package apperr

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Error is a failure whose Detail is safe to show to the user.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

func New(status int, detail string) *Error {
	return &Error{Status: status, Detail: detail}
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, fmt.Sprintf(format, args...))
}

func BadRequest(format string, args ...any) *Error {
	return New(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...any) *Error {
	return New(http.StatusConflict, fmt.Sprintf(format, args...))
}

// From returns the *Error inside err, if any.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
