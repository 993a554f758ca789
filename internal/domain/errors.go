package domain

import "errors"

// Error kinds. Every error returned by the booking core wraps exactly one of these,
// so the HTTP boundary can map it with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Unwrap() error {
	return e.kind
}

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

var (
	ErrRecordNotFound   = newKindError(ErrNotFound, "record not found")
	ErrShowtimeNotFound = newKindError(ErrNotFound, "showtime not found")
	ErrSeatNotFound     = newKindError(ErrNotFound, "one or more seats do not exist for this showtime")
	ErrBookingNotFound  = newKindError(ErrNotFound, "booking not found")
	ErrNoSeatsSelected  = newKindError(ErrInvalidInput, "at least one seat must be selected")
	ErrTooManySeats     = newKindError(ErrInvalidInput, "too many seats selected for one booking")
	ErrSeatUnavailable  = newKindError(ErrConflict, "one or more seats are no longer available")
	ErrSeatsTaken       = newKindError(ErrConflict, "some seats were taken by another request, please reselect")
	ErrSeatLockExpired  = newKindError(ErrConflict, "your seat locks have expired or are not held by you, please select your seats again")
)

// ErrDuplicateBookingCode signals a booking code collision. It never leaves the booking service.
var ErrDuplicateBookingCode = errors.New("duplicate booking code")
