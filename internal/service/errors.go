package service

import (
	"errors"
	"fmt"
)

// ErrValidation marks request errors the caller can fix. Controllers map
// it to a 400 instead of a 500.
var ErrValidation = errors.New("invalid request")

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
