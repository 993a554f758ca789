package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/metinatakli/seat-reservation/internal/domain"
)

const bookingCodeConstraint = "bookings_code_key"

type PostgresBookingRepository struct {
	db DBTX
}

func NewPostgresBookingRepository(db DBTX) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, code, user_id, showtime_id, status, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		booking.ID,
		booking.Code,
		booking.UserID,
		booking.ShowtimeID,
		booking.Status,
		booking.TotalAmount,
	).Scan(&booking.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) &&
			pgErr.Code == pgerrcode.UniqueViolation &&
			pgErr.ConstraintName == bookingCodeConstraint {
			return domain.ErrDuplicateBookingCode
		}

		return err
	}

	rows := make([][]any, 0, len(booking.SeatIDs))
	for _, seatID := range booking.SeatIDs {
		rows = append(rows, []any{booking.ID, seatID})
	}

	_, err = p.db.CopyFrom(
		ctx,
		pgx.Identifier{"booking_seats"},
		[]string{"booking_id", "seat_id"},
		pgx.CopyFromRows(rows),
	)

	return err
}

const bookingSelect = `
		SELECT
			COUNT(*) OVER(),
			b.id,
			b.code,
			b.user_id,
			b.showtime_id,
			b.status,
			b.total_amount,
			b.created_at,
			s.id,
			s.movie_id,
			m.title,
			s.theatre,
			s.screen,
			s.show_date,
			s.start_time,
			s.created_at
		FROM bookings b
		JOIN showtimes s ON b.showtime_id = s.id
		JOIN movies m ON s.movie_id = m.id
`

func (p *PostgresBookingRepository) GetByCode(ctx context.Context, code string) (*domain.BookingDetail, error) {
	query := bookingSelect + `WHERE b.code = $1`

	bookings, _, err := p.queryBookings(ctx, query, code)
	if err != nil {
		return nil, err
	}

	if len(bookings) == 0 {
		return nil, domain.ErrBookingNotFound
	}

	return &bookings[0], nil
}

func (p *PostgresBookingRepository) GetAllByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingDetail, *domain.Metadata, error) {

	query := bookingSelect + `
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.code
		LIMIT $2 OFFSET $3
	`

	bookings, totalRecords, err := p.queryBookings(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}

	return bookings, domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize), nil
}

func (p *PostgresBookingRepository) GetAll(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.BookingDetail, *domain.Metadata, error) {

	query := bookingSelect + `
		ORDER BY b.created_at DESC, b.code
		LIMIT $1 OFFSET $2
	`

	bookings, totalRecords, err := p.queryBookings(ctx, query, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}

	return bookings, domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize), nil
}

func (p *PostgresBookingRepository) queryBookings(
	ctx context.Context,
	query string,
	args ...any) ([]domain.BookingDetail, int, error) {

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings := make([]domain.BookingDetail, 0)
	totalRecords := 0

	for rows.Next() {
		var booking domain.BookingDetail

		err := rows.Scan(
			&totalRecords,
			&booking.ID,
			&booking.Code,
			&booking.UserID,
			&booking.ShowtimeID,
			&booking.Status,
			&booking.TotalAmount,
			&booking.CreatedAt,
			&booking.Showtime.ID,
			&booking.Showtime.MovieID,
			&booking.Showtime.MovieTitle,
			&booking.Showtime.Theatre,
			&booking.Showtime.Screen,
			&booking.Showtime.Date,
			&booking.Showtime.StartTime,
			&booking.Showtime.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}

		bookings = append(bookings, booking)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(bookings) == 0 {
		return bookings, totalRecords, nil
	}

	err = p.attachSeatsAndPayments(ctx, bookings)
	if err != nil {
		return nil, 0, err
	}

	return bookings, totalRecords, nil
}

func (p *PostgresBookingRepository) attachSeatsAndPayments(ctx context.Context, bookings []domain.BookingDetail) error {
	ids := make([]uuid.UUID, len(bookings))
	index := make(map[uuid.UUID]*domain.BookingDetail, len(bookings))

	for i := range bookings {
		ids[i] = bookings[i].ID
		index[bookings[i].ID] = &bookings[i]
	}

	seatQuery := `
		SELECT bs.booking_id, s.id, s.showtime_id, s.seat_row, s.seat_number, s.status, s.locked_at, s.locked_by
		FROM booking_seats bs
		JOIN seats s ON bs.seat_id = s.id
		WHERE bs.booking_id = ANY($1)
		ORDER BY s.seat_row, s.seat_number
	`

	rows, err := p.db.Query(ctx, seatQuery, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var bookingID uuid.UUID
		var seat domain.Seat

		err := rows.Scan(
			&bookingID,
			&seat.ID,
			&seat.ShowtimeID,
			&seat.Row,
			&seat.Number,
			&seat.Status,
			&seat.LockedAt,
			&seat.LockedBy,
		)
		if err != nil {
			return err
		}

		booking := index[bookingID]
		booking.Seats = append(booking.Seats, seat)
		booking.SeatIDs = append(booking.SeatIDs, seat.ID)
	}

	if err = rows.Err(); err != nil {
		return err
	}

	paymentQuery := `
		SELECT id, booking_id, amount, status, method, created_at
		FROM payments
		WHERE booking_id = ANY($1)
	`

	paymentRows, err := p.db.Query(ctx, paymentQuery, ids)
	if err != nil {
		return err
	}
	defer paymentRows.Close()

	for paymentRows.Next() {
		var payment domain.Payment

		err := paymentRows.Scan(
			&payment.ID,
			&payment.BookingID,
			&payment.Amount,
			&payment.Status,
			&payment.Method,
			&payment.CreatedAt,
		)
		if err != nil {
			return err
		}

		index[payment.BookingID].Payment = &payment
	}

	return paymentRows.Err()
}
