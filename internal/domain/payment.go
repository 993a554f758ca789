package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type Payment struct {
	ID        int
	BookingID uuid.UUID
	Amount    decimal.Decimal
	Status    PaymentStatus
	Method    string
	CreatedAt time.Time
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
}

// PaymentProvider settles a booking and returns the payment to be recorded with it.
type PaymentProvider interface {
	Settle(ctx context.Context, booking Booking) (*Payment, error)
}
