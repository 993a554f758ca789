package domain

import (
	"context"
	"time"
)

type Showtime struct {
	ID         int
	MovieID    int
	MovieTitle string
	Theatre    string
	Screen     string
	Date       time.Time
	StartTime  string
	CreatedAt  time.Time
}

// SeatLayout is the seat template used when a showtime is created.
type SeatLayout struct {
	Rows        []string
	SeatsPerRow int
}

var DefaultSeatLayout = SeatLayout{
	Rows:        []string{"A", "B", "C", "D", "E"},
	SeatsPerRow: 10,
}

// Seats expands the layout into available seats for the given showtime.
func (l SeatLayout) Seats(showtimeID int) []Seat {
	seats := make([]Seat, 0, len(l.Rows)*l.SeatsPerRow)

	for _, row := range l.Rows {
		for n := 1; n <= l.SeatsPerRow; n++ {
			seats = append(seats, Seat{
				ShowtimeID: showtimeID,
				Row:        row,
				Number:     n,
				Status:     SeatStatusAvailable,
			})
		}
	}

	return seats
}

type ShowtimeRepository interface {
	Exists(ctx context.Context, id int) (bool, error)
	GetById(ctx context.Context, id int) (*Showtime, error)
	CreateWithSeats(ctx context.Context, showtime *Showtime, layout SeatLayout) error
}
