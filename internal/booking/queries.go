package booking

import (
	"context"

	"github.com/metinatakli/seat-reservation/internal/domain"
)

type SeatMap struct {
	Showtime domain.Showtime
	Seats    []domain.Seat
}

// SeatMap returns the showtime's seats ordered by row and number, after expired
// locks have been released.
func (s *Service) SeatMap(ctx context.Context, showtimeID int) (*SeatMap, error) {
	showtime, err := s.store.Showtimes().GetById(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	_, err = s.SweepExpired(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	seats, err := s.store.Seats().GetByShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	return &SeatMap{Showtime: *showtime, Seats: seats}, nil
}

func (s *Service) BookingsForUser(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingDetail, *domain.Metadata, error) {

	return s.store.Bookings().GetAllByUserId(ctx, userID, pagination)
}

func (s *Service) AllBookings(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.BookingDetail, *domain.Metadata, error) {

	return s.store.Bookings().GetAll(ctx, pagination)
}

// BookingByCode hides bookings the caller may not see behind ErrBookingNotFound.
func (s *Service) BookingByCode(ctx context.Context, code string, caller domain.Identity) (*domain.BookingDetail, error) {
	booking, err := s.store.Bookings().GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if booking.UserID != caller.UserID && !caller.IsPrivileged() {
		return nil, domain.ErrBookingNotFound
	}

	return booking, nil
}
