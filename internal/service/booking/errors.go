package booking

import "errors"

var (
	ErrSessionNotFound         = errors.New("session not found")
	ErrWorkflowNotFound        = errors.New("booking not found or expired")
	ErrInvalidTransition       = errors.New("action not allowed in the current booking step")
	ErrUnknownSeat             = errors.New("seat does not exist in this room")
	ErrNoSeatsSelected         = errors.New("select at least one seat")
	ErrCustomerDetailsRequired = errors.New("customer name and email are required")
	ErrSubmissionInProgress    = errors.New("booking is already being submitted")
	ErrSubmissionFailed        = errors.New("could not complete the purchase")
	ErrSeatsTaken              = errors.New("some selected seats were sold in the meantime")
	ErrSessionBusy             = errors.New("another purchase for this session is being processed")
)

// seatsTakenError carries the occupied seats read under the session lock.
type seatsTakenError struct {
	occupied []string
}

func (e *seatsTakenError) Error() string { return ErrSeatsTaken.Error() }

func (e *seatsTakenError) Unwrap() error { return ErrSeatsTaken }
