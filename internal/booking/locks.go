package booking

import (
	"context"
	"time"

	"github.com/metinatakli/seat-reservation/internal/domain"
)

type LockResult struct {
	Seats     []domain.Seat
	LockedAt  time.Time
	ExpiresAt time.Time
}

// SweepExpired releases every lock older than the lock timeout. A zero showtimeID
// sweeps all showtimes. It returns the number of seats released.
func (s *Service) SweepExpired(ctx context.Context, showtimeID int) (int, error) {
	cutoff := s.clock().Add(-s.lockTimeout)

	filter := domain.SeatFilter{
		ShowtimeID:   showtimeID,
		Status:       domain.SeatStatusLocked,
		LockedBefore: &cutoff,
	}

	released, err := s.store.Seats().Transition(ctx, filter, domain.ReleaseTo())
	if err != nil {
		return 0, err
	}

	if released > 0 {
		s.metrics.expiredLocks.Add(ctx, int64(released))
		s.logger.Info("released expired seat locks", "showtime_id", showtimeID, "count", released)
	}

	return released, nil
}

// Lock holds every requested seat for userID or none of them.
func (s *Service) Lock(ctx context.Context, showtimeID int, seatIDs []int, userID int) (*LockResult, error) {
	seatIDs, err := s.selection(seatIDs)
	if err != nil {
		return nil, err
	}

	err = s.ensureShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	_, err = s.SweepExpired(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	seats, err := s.store.Seats().GetByIDs(ctx, showtimeID, seatIDs)
	if err != nil {
		return nil, err
	}

	if len(seats) != len(seatIDs) {
		return nil, domain.ErrSeatNotFound
	}

	for _, seat := range seats {
		if !seat.IsAvailable() {
			s.metrics.lockConflicts.Add(ctx, 1)
			s.logger.Warn("seat lock rejected", "showtime_id", showtimeID, "seat_id", seat.ID, "status", seat.Status)
			return nil, domain.ErrSeatUnavailable
		}
	}

	lockedAt := s.clock()
	change := domain.LockTo(userID, lockedAt)

	filter := domain.SeatFilter{
		ShowtimeID: showtimeID,
		SeatIDs:    seatIDs,
		Status:     domain.SeatStatusAvailable,
	}

	locked, err := s.store.Seats().Transition(ctx, filter, change)
	if err != nil {
		return nil, err
	}

	// Seats that did move stay held by userID until they expire or are released.
	if locked < len(seatIDs) {
		s.metrics.lockConflicts.Add(ctx, 1)
		s.logger.Warn("seat lock lost a race", "showtime_id", showtimeID, "requested", len(seatIDs), "locked", locked)
		return nil, domain.ErrSeatsTaken
	}

	for i := range seats {
		seats[i] = change.Apply(seats[i])
	}

	s.metrics.seatLocks.Add(ctx, int64(locked))

	return &LockResult{
		Seats:     seats,
		LockedAt:  lockedAt,
		ExpiresAt: lockedAt.Add(s.lockTimeout),
	}, nil
}

// Release frees the seats of the selection that userID currently holds and
// ignores the rest. It returns the number of seats released.
func (s *Service) Release(ctx context.Context, showtimeID int, seatIDs []int, userID int) (int, error) {
	seatIDs = uniqueSeatIDs(seatIDs)
	if len(seatIDs) == 0 {
		return 0, nil
	}

	filter := domain.SeatFilter{
		ShowtimeID: showtimeID,
		SeatIDs:    seatIDs,
		Status:     domain.SeatStatusLocked,
		LockedBy:   userID,
	}

	return s.store.Seats().Transition(ctx, filter, domain.ReleaseTo())
}
