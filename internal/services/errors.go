package services

import (
	"errors"
	"net/http"

	"github.com/yungbote/meet-highlight-backend/internal/platform/apierr"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrUpstreamEmpty = errors.New("Empty response from LLM")
	ErrConfig        = errors.New("configuration error")
)

// validationError keeps the user-facing message while matching ErrValidation.
type validationError struct{ msg string }

func (e validationError) Error() string        { return e.msg }
func (e validationError) Is(target error) bool { return target == ErrValidation }

func invalid(code, msg string) error {
	return apierr.New(http.StatusBadRequest, code, validationError{msg: msg})
}

func tooLarge(msg string) error {
	return apierr.New(http.StatusRequestEntityTooLarge, "file_too_large", validationError{msg: msg})
}

type configError struct{ err error }

func (e configError) Error() string        { return e.err.Error() }
func (e configError) Unwrap() error        { return e.err }
func (e configError) Is(target error) bool { return target == ErrConfig }

func misconfigured(code string, err error) error {
	return apierr.Internal(code, configError{err: err})
}
