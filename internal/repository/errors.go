package repository

import "errors"

var (
	// ErrAlreadyUsed is returned when marking an access code that was
	// already claimed.
	ErrAlreadyUsed = errors.New("access code already used")

	// ErrPoolExhausted is returned when no unused access code is left for
	// the requested product type.
	ErrPoolExhausted = errors.New("access code pool exhausted")

	// ErrInvalidTransition is returned for order status changes the state
	// machine does not allow, e.g. paid back to pending.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrInvalidStatus is returned for status values outside the enum.
	ErrInvalidStatus = errors.New("invalid order status")
)
