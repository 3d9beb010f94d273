package booking

import "errors"

// Semantic failures of the booking paths. Each resolves to a user-facing
// message; none of them is retried by callers, since the precondition it
// reports is genuinely false at transaction time. Transient write-conflict
// aborts never reach this level: the store retries those internally.
var (
	ErrInvalidArgument = errors.New("invalid room or bed identifier")
	ErrUnauthenticated = errors.New("authentication required")
	ErrRoomNotFound    = errors.New("room not found")
	ErrBedUnavailable  = errors.New("this bed has just been taken by someone else")
	ErrActiveBooking   = errors.New("you already have an active or pending booking")
	ErrBookingNotFound = errors.New("booking not found")
	ErrBadTransition   = errors.New("booking is not in a state that allows this action")
)
