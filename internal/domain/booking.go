package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID          uuid.UUID
	Code        string
	UserID      int
	ShowtimeID  int
	SeatIDs     []int
	Status      BookingStatus
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}

// BookingDetail is a booking with its showtime, seats and payment resolved.
type BookingDetail struct {
	Booking
	Showtime Showtime
	Seats    []Seat
	Payment  *Payment
}

type BookingRepository interface {
	// Create returns ErrDuplicateBookingCode when the code is already taken.
	Create(ctx context.Context, booking *Booking) error
	GetByCode(ctx context.Context, code string) (*BookingDetail, error)
	GetAllByUserId(ctx context.Context, userID int, pagination Pagination) ([]BookingDetail, *Metadata, error)
	GetAll(ctx context.Context, pagination Pagination) ([]BookingDetail, *Metadata, error)
}
