// Package common defines shared constants and sentinel errors used across
// client and server layers of GophMail. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Account validation errors.
	ErrInvalidUsername = errors.New("invalid username")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrWeakPassword    = errors.New("password does not meet strength requirements")

	// Login errors.
	ErrNoSuchUser     = errors.New("no such user")
	ErrBadCredentials = errors.New("bad credentials")

	// Inbox errors.
	ErrInvalidChoice = errors.New("invalid choice")

	// Delivery errors.
	ErrMalformedAddress = errors.New("malformed destination address")
	ErrForeignDomain    = errors.New("destination domain is not handled by this server")
	ErrUnknownRecipient = errors.New("unknown recipient")

	// Protocol-level errors.
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("unauthorized")

	// Generic flow control.
	ErrInternal = errors.New("internal error")
	ErrNotFound = errors.New("not found")
)
