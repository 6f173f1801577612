package service

import (
	"errors"
	"fmt"
)

// ErrValidationFailed is wrapped by every input validation error; the API maps it to 400.
var ErrValidationFailed = errors.New("validation failed")

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}
