package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/metinatakli/seat-reservation/internal/domain"
)

type PostgresSeatRepository struct {
	db DBTX
}

func NewPostgresSeatRepository(db DBTX) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

func (p *PostgresSeatRepository) GetByShowtime(ctx context.Context, showtimeID int) ([]domain.Seat, error) {
	query := `
		SELECT id, showtime_id, seat_row, seat_number, status, locked_at, locked_by
		FROM seats
		WHERE showtime_id = $1
		ORDER BY seat_row, seat_number
	`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}

	return scanSeats(rows)
}

func (p *PostgresSeatRepository) GetByIDs(ctx context.Context, showtimeID int, seatIDs []int) ([]domain.Seat, error) {
	query := `
		SELECT id, showtime_id, seat_row, seat_number, status, locked_at, locked_by
		FROM seats
		WHERE showtime_id = $1 AND id = ANY($2)
		ORDER BY seat_row, seat_number
	`

	rows, err := p.db.Query(ctx, query, showtimeID, seatIDs)
	if err != nil {
		return nil, err
	}

	return scanSeats(rows)
}

// Transition is a single conditional UPDATE. Under READ COMMITTED a concurrent
// writer blocks on the row lock and re-evaluates the WHERE clause afterwards, so
// a seat is moved by at most one of two racing transitions.
func (p *PostgresSeatRepository) Transition(
	ctx context.Context,
	filter domain.SeatFilter,
	change domain.SeatChange) (int, error) {

	change = normalizeChange(change)
	args := []any{change.Status, change.LockedAt, change.LockedBy}
	conditions := make([]string, 0, 5)

	addCondition := func(format string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(format, len(args)))
	}

	if filter.ShowtimeID != 0 {
		addCondition("showtime_id = $%d", filter.ShowtimeID)
	}
	if len(filter.SeatIDs) > 0 {
		addCondition("id = ANY($%d)", filter.SeatIDs)
	}
	if filter.Status != "" {
		addCondition("status = $%d", filter.Status)
	}
	if filter.LockedBy != 0 {
		addCondition("locked_by = $%d", filter.LockedBy)
	}
	if filter.LockedBefore != nil {
		addCondition("locked_at <= $%d", *filter.LockedBefore)
	}

	query := "UPDATE seats SET status = $1, locked_at = $2, locked_by = $3"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	tag, err := p.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}

func (p *PostgresSeatRepository) CreateBatch(ctx context.Context, seats []domain.Seat) error {
	rows := make([][]any, 0, len(seats))
	for _, seat := range seats {
		rows = append(rows, []any{
			seat.ShowtimeID,
			seat.Row,
			seat.Number,
			string(seat.Status),
		})
	}

	_, err := p.db.CopyFrom(
		ctx,
		pgx.Identifier{"seats"},
		[]string{"showtime_id", "seat_row", "seat_number", "status"},
		pgx.CopyFromRows(rows),
	)

	return err
}

// normalizeChange drops lock metadata for non-locked targets so the row always
// satisfies the seats_lock_fields check.
func normalizeChange(change domain.SeatChange) domain.SeatChange {
	if change.Status != domain.SeatStatusLocked {
		change.LockedAt = nil
		change.LockedBy = nil
	}

	return change
}

func scanSeats(rows pgx.Rows) ([]domain.Seat, error) {
	defer rows.Close()

	seats := make([]domain.Seat, 0)

	for rows.Next() {
		var seat domain.Seat

		err := rows.Scan(
			&seat.ID,
			&seat.ShowtimeID,
			&seat.Row,
			&seat.Number,
			&seat.Status,
			&seat.LockedAt,
			&seat.LockedBy,
		)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}
