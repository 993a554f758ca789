package domain

import "context"

// Store groups the repositories the booking core writes through. Atomic runs fn
// against a Store bound to a single transaction; fn's error rolls everything back.
type Store interface {
	Seats() SeatRepository
	Showtimes() ShowtimeRepository
	Movies() MovieRepository
	Bookings() BookingRepository
	Payments() PaymentRepository
	Atomic(ctx context.Context, fn func(Store) error) error
}
