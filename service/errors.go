package service

import "errors"

// Failure kinds surfaced by the lottery operations. All are rejected
// synchronously; no partial state mutation survives any of them.
var (
	// ErrInvalidPayment is returned when an entry payment does not match the
	// ticket price exactly
	ErrInvalidPayment = errors.New("payment must equal the ticket price exactly")

	// ErrUnauthorized is returned when a non-owner calls an owner-only operation
	ErrUnauthorized = errors.New("caller is not the lottery owner")

	// ErrNoEntrants is returned when a draw is attempted on an empty round
	ErrNoEntrants = errors.New("no entrants in the current round")

	// ErrInvalidPrice is returned for a non-positive ticket price update
	ErrInvalidPrice = errors.New("ticket price must be positive")

	// ErrPayoutFailed is returned when the prize transfer could not complete;
	// the whole draw is rolled back
	ErrPayoutFailed = errors.New("prize payout could not be completed")
)
