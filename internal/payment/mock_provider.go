package payment

import (
	"context"

	"github.com/metinatakli/seat-reservation/internal/domain"
)

const MethodMock = "mock"

// MockPaymentProvider settles every booking successfully for its full amount.
type MockPaymentProvider struct {
}

func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{}
}

func (m *MockPaymentProvider) Settle(ctx context.Context, booking domain.Booking) (*domain.Payment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &domain.Payment{
		BookingID: booking.ID,
		Amount:    booking.TotalAmount,
		Status:    domain.PaymentStatusSuccess,
		Method:    MethodMock,
	}, nil
}
