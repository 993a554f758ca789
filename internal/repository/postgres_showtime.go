package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/metinatakli/seat-reservation/internal/domain"
)

type PostgresShowtimeRepository struct {
	db DBTX
}

func NewPostgresShowtimeRepository(db DBTX) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{
		db: db,
	}
}

func (p *PostgresShowtimeRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool

	err := p.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM showtimes WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (p *PostgresShowtimeRepository) GetById(ctx context.Context, id int) (*domain.Showtime, error) {
	query := `
		SELECT s.id, s.movie_id, m.title, s.theatre, s.screen, s.show_date, s.start_time, s.created_at
		FROM showtimes s
		JOIN movies m ON s.movie_id = m.id
		WHERE s.id = $1
	`

	var showtime domain.Showtime

	err := p.db.QueryRow(ctx, query, id).Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.MovieTitle,
		&showtime.Theatre,
		&showtime.Screen,
		&showtime.Date,
		&showtime.StartTime,
		&showtime.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShowtimeNotFound
		}

		return nil, err
	}

	return &showtime, nil
}

// CreateWithSeats inserts the showtime and bulk-creates its seats from the layout.
// Callers that need both writes to be atomic run it inside Store.Atomic.
func (p *PostgresShowtimeRepository) CreateWithSeats(
	ctx context.Context,
	showtime *domain.Showtime,
	layout domain.SeatLayout) error {

	query := `
		INSERT INTO showtimes (movie_id, theatre, screen, show_date, start_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		showtime.MovieID,
		showtime.Theatre,
		showtime.Screen,
		showtime.Date,
		showtime.StartTime,
	).Scan(&showtime.ID, &showtime.CreatedAt)
	if err != nil {
		return err
	}

	seats := NewPostgresSeatRepository(p.db)

	return seats.CreateBatch(ctx, layout.Seats(showtime.ID))
}
