package domain

import (
	"context"
	"slices"
	"time"
)

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusLocked    SeatStatus = "locked"
	SeatStatusBooked    SeatStatus = "booked"
)

type Seat struct {
	ID         int
	ShowtimeID int
	Row        string
	Number     int
	Status     SeatStatus
	LockedAt   *time.Time
	LockedBy   *int
}

func (s Seat) IsAvailable() bool {
	return s.Status == SeatStatusAvailable
}

func (s Seat) IsLockedBy(userID int) bool {
	return s.Status == SeatStatusLocked && s.LockedBy != nil && *s.LockedBy == userID
}

// SeatFilter selects the seats a transition applies to. Zero values are ignored.
type SeatFilter struct {
	ShowtimeID int
	SeatIDs    []int
	Status     SeatStatus
	LockedBy   int
	// LockedBefore matches seats whose lock was taken at or before this instant.
	LockedBefore *time.Time
}

func (f SeatFilter) Matches(s Seat) bool {
	if f.ShowtimeID != 0 && s.ShowtimeID != f.ShowtimeID {
		return false
	}
	if len(f.SeatIDs) > 0 && !slices.Contains(f.SeatIDs, s.ID) {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.LockedBy != 0 && (s.LockedBy == nil || *s.LockedBy != f.LockedBy) {
		return false
	}
	if f.LockedBefore != nil && (s.LockedAt == nil || s.LockedAt.After(*f.LockedBefore)) {
		return false
	}

	return true
}

// SeatChange is the target state of a transition. Lock metadata is only kept
// when the target status is locked.
type SeatChange struct {
	Status   SeatStatus
	LockedAt *time.Time
	LockedBy *int
}

func LockTo(userID int, at time.Time) SeatChange {
	return SeatChange{Status: SeatStatusLocked, LockedAt: &at, LockedBy: &userID}
}

func ReleaseTo() SeatChange {
	return SeatChange{Status: SeatStatusAvailable}
}

func BookTo() SeatChange {
	return SeatChange{Status: SeatStatusBooked}
}

func (c SeatChange) Apply(s Seat) Seat {
	s.Status = c.Status
	if c.Status == SeatStatusLocked {
		s.LockedAt = c.LockedAt
		s.LockedBy = c.LockedBy
	} else {
		s.LockedAt = nil
		s.LockedBy = nil
	}

	return s
}

type SeatRepository interface {
	GetByShowtime(ctx context.Context, showtimeID int) ([]Seat, error)
	GetByIDs(ctx context.Context, showtimeID int, seatIDs []int) ([]Seat, error)
	// Transition atomically moves every seat matching the filter to the change and
	// returns how many seats actually moved.
	Transition(ctx context.Context, filter SeatFilter, change SeatChange) (int, error)
	CreateBatch(ctx context.Context, seats []Seat) error
}
