package converters

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is matched by every input validation error of this package.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError carries a caller-facing message and the underlying cause.
type InvalidArgumentError struct {
	Message string
	Err     error
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

// Unwrap exposes the parse error, if any.
func (e *InvalidArgumentError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidArgument) succeed.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func invalidArgument(prefix string, cause error) error {
	return &InvalidArgumentError{Message: prefix + cause.Error(), Err: cause}
}

func invalidArgumentf(format string, args ...any) error {
	return &InvalidArgumentError{Message: fmt.Sprintf(format, args...)}
}
