package reservation

import (
	"errors"
	"fmt"
)

// Error codes for the reservation engine.
const (
	CodeNotFound            = "notFound"
	CodeConflict            = "conflict"
	CodeUnavailable         = "unavailable"
	CodeInvalidWindow       = "invalidWindow"
	CodePricingUnresolvable = "pricingUnresolvable"
	CodeForbidden           = "forbidden"
)

// Error is a typed engine error carrying a taxonomy code.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code, msg string) error {
	return &Error{Code: code, Message: msg}
}

func wrapError(code, msg string, err error) error {
	return &Error{Code: code, Message: msg, Err: err}
}

func NewNotFound(msg string) error            { return newError(CodeNotFound, msg) }
func NewConflict(msg string) error            { return newError(CodeConflict, msg) }
func NewUnavailable(msg string) error         { return newError(CodeUnavailable, msg) }
func NewInvalidWindow(msg string) error       { return newError(CodeInvalidWindow, msg) }
func NewPricingUnresolvable(msg string) error { return newError(CodePricingUnresolvable, msg) }
func NewForbidden(msg string) error           { return newError(CodeForbidden, msg) }

// CodeOf extracts the taxonomy code from err, or "" when err is not an
// engine error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given taxonomy code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
