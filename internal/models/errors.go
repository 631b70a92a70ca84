package models

import "errors"

// Error taxonomy for the packet core. Every failure leaving this package
// wraps one of these sentinels so callers can match with errors.Is.
var (
	// ErrInvalidArgument marks malformed constructor input: a missing
	// timestamp, a mapping without the required keys, or a bad zone id.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrParse marks a date string that does not match TimeLayout.
	ErrParse = errors.New("parse error")

	// ErrTypeMismatch marks a comparison against a value that is not an Event.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrFormat marks a computed UTC offset that does not have the expected
	// two-group numeric shape.
	ErrFormat = errors.New("format error")
)
