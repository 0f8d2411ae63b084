package statsboard

import "github.com/pkg/errors"

var (
	// ErrDataUnavailable means the stats endpoint could not provide a snapshot
	ErrDataUnavailable = errors.New("stats data unavailable")

	ErrElementNotFound = errors.New("element not found")
)

func newEmptyFieldError(name string) error {
	err := errors.Errorf("unexpected empty field %s", name)
	return errors.Wrap(err, "the field must be set in the config")
}

func newFieldError(name string, err error) error {
	return errors.Wrapf(err, "%s field verification failed", name)
}

// dataUnavailable wraps the cause so callers can match on ErrDataUnavailable with errors.Is
func dataUnavailable(cause error) error {
	return &unavailableError{cause: cause}
}

type unavailableError struct {
	cause error
}

func (e *unavailableError) Error() string {
	return ErrDataUnavailable.Error() + ": " + e.cause.Error()
}

func (e *unavailableError) Cause() error { return e.cause }

func (e *unavailableError) Unwrap() error { return e.cause }

func (e *unavailableError) Is(target error) bool { return target == ErrDataUnavailable }
