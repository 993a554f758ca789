package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/shopspring/decimal"
)

type ConfirmInput struct {
	ShowtimeID int
	SeatIDs    []int
	UserID     int
	// TotalAmount overrides the seat count based price when positive.
	TotalAmount *decimal.Decimal
}

// Confirm turns seats locked by the user into a booking. The booking, the booked
// seats and the payment are written in one transaction.
func (s *Service) Confirm(ctx context.Context, input ConfirmInput) (*domain.BookingDetail, error) {
	seatIDs, err := s.selection(input.SeatIDs)
	if err != nil {
		return nil, err
	}

	err = s.ensureShowtime(ctx, input.ShowtimeID)
	if err != nil {
		return nil, err
	}

	_, err = s.SweepExpired(ctx, input.ShowtimeID)
	if err != nil {
		return nil, err
	}

	seats, err := s.store.Seats().GetByIDs(ctx, input.ShowtimeID, seatIDs)
	if err != nil {
		return nil, err
	}

	if len(seats) != len(seatIDs) {
		return nil, domain.ErrSeatLockExpired
	}

	for _, seat := range seats {
		if !seat.IsLockedBy(input.UserID) {
			s.logger.Warn("confirm rejected, seat not held by user",
				"showtime_id", input.ShowtimeID, "seat_id", seat.ID, "user_id", input.UserID)
			return nil, domain.ErrSeatLockExpired
		}
	}

	amount := s.amountFor(input.TotalAmount, len(seatIDs))

	var (
		booking *domain.Booking
		detail  *domain.BookingDetail
	)

	for attempt := 1; ; attempt++ {
		code, err := s.newCode(s.clock())
		if err != nil {
			return nil, fmt.Errorf("failed to generate booking code: %w", err)
		}

		booking = &domain.Booking{
			ID:          uuid.New(),
			Code:        code,
			UserID:      input.UserID,
			ShowtimeID:  input.ShowtimeID,
			SeatIDs:     seatIDs,
			Status:      domain.BookingStatusConfirmed,
			TotalAmount: amount,
		}

		detail, err = s.commit(ctx, booking)
		if err == nil {
			break
		}

		if errors.Is(err, domain.ErrDuplicateBookingCode) && attempt < maxCodeAttempts {
			s.logger.Warn("booking code collision, retrying", "code", code, "attempt", attempt)
			continue
		}

		return nil, err
	}

	s.metrics.confirmed.Add(ctx, 1)
	s.logger.Info("booking confirmed",
		"code", booking.Code, "showtime_id", booking.ShowtimeID, "user_id", booking.UserID, "seats", len(seatIDs))

	return detail, nil
}

// commit writes the booking, books its seats and records the payment, then reads the
// booking back in the same transaction.
func (s *Service) commit(ctx context.Context, booking *domain.Booking) (*domain.BookingDetail, error) {
	var detail *domain.BookingDetail

	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		err := tx.Bookings().Create(ctx, booking)
		if err != nil {
			return err
		}

		filter := domain.SeatFilter{
			ShowtimeID: booking.ShowtimeID,
			SeatIDs:    booking.SeatIDs,
			Status:     domain.SeatStatusLocked,
			LockedBy:   booking.UserID,
		}

		booked, err := tx.Seats().Transition(ctx, filter, domain.BookTo())
		if err != nil {
			return err
		}

		if booked != len(booking.SeatIDs) {
			return domain.ErrSeatLockExpired
		}

		payment, err := s.payments.Settle(ctx, *booking)
		if err != nil {
			return err
		}

		err = tx.Payments().Create(ctx, payment)
		if err != nil {
			return err
		}

		detail, err = tx.Bookings().GetByCode(ctx, booking.Code)
		return err
	})
	if err != nil {
		return nil, err
	}

	return detail, nil
}

func (s *Service) amountFor(total *decimal.Decimal, seatCount int) decimal.Decimal {
	if total != nil && total.IsPositive() {
		return *total
	}

	return s.seatPrice.Mul(decimal.NewFromInt(int64(seatCount)))
}
