package cli

import "errors"

// ErrUsage matches errors caused by how the command was invoked (bad flags,
// a missing locator, an unreadable config file) rather than by the
// application being documented.
var ErrUsage = errors.New("routes2swagger usage error")

type usageError struct {
	msg string
}

func newUsageError(msg string) error {
	return usageError{msg: msg}
}

func (e usageError) Error() string {
	return e.msg
}

func (e usageError) Is(target error) bool {
	return target == ErrUsage
}

// IsUsage reports whether err stems from command-line misuse.
func IsUsage(err error) bool {
	return errors.Is(err, ErrUsage)
}
