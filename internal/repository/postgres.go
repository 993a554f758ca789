package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation/internal/domain"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so every repository can run
// either standalone or inside a unit of work.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

type PostgresStore struct {
	pool *pgxpool.Pool
	tx   pgx.Tx

	seats     *PostgresSeatRepository
	showtimes *PostgresShowtimeRepository
	movies    *PostgresMovieRepository
	bookings  *PostgresBookingRepository
	payments  *PostgresPaymentRepository
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return newStore(pool, nil, pool)
}

func newStore(pool *pgxpool.Pool, tx pgx.Tx, db DBTX) *PostgresStore {
	return &PostgresStore{
		pool:      pool,
		tx:        tx,
		seats:     NewPostgresSeatRepository(db),
		showtimes: NewPostgresShowtimeRepository(db),
		movies:    NewPostgresMovieRepository(db),
		bookings:  NewPostgresBookingRepository(db),
		payments:  NewPostgresPaymentRepository(db),
	}
}

func (s *PostgresStore) Seats() domain.SeatRepository         { return s.seats }
func (s *PostgresStore) Showtimes() domain.ShowtimeRepository { return s.showtimes }
func (s *PostgresStore) Movies() domain.MovieRepository       { return s.movies }
func (s *PostgresStore) Bookings() domain.BookingRepository   { return s.bookings }
func (s *PostgresStore) Payments() domain.PaymentRepository   { return s.payments }

// Atomic runs fn inside a transaction. Nested calls join the outer transaction.
func (s *PostgresStore) Atomic(ctx context.Context, fn func(domain.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	return runInTx(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(newStore(s.pool, tx, tx))
	})
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}
