// Package xerrors defines the error kinds callers can match against with
// errors.Is, independent of the message text attached at each call site.
package xerrors

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Wrap one of these with Wrap to preserve both the
// kind and a specific message.
var (
	ErrIO           = errors.New("io error")
	ErrRegexCompile = errors.New("regex compile error")
	ErrConfig       = errors.New("config error")
	ErrInternal     = errors.New("internal error")
)

// Wrap returns an error whose message is msg and whose chain contains
// kind, so errors.Is(err, kind) reports true regardless of msg.
func Wrap(kind error, msg string) error {
	return fmt.Errorf("%s: %w", msg, kind)
}

// Wrapf is Wrap with fmt.Sprintf-style formatting of msg.
func Wrapf(kind error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), kind)
}
