package errs

import (
	"github.com/pkg/errors"
)

// Error kinds. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrConflict     = errors.New("conflict")
	ErrAccessDenied = errors.New("access denied")
)

func NotFound(msg string) error {
	return errors.Wrap(ErrNotFound, msg)
}

func BadRequest(msg string) error {
	return errors.Wrap(ErrBadRequest, msg)
}

func Conflict(msg string) error {
	return errors.Wrap(ErrConflict, msg)
}

func AccessDenied(msg string) error {
	return errors.Wrap(ErrAccessDenied, msg)
}
