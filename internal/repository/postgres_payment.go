package repository

import (
	"context"

	"github.com/metinatakli/seat-reservation/internal/domain"
)

type PostgresPaymentRepository struct {
	db DBTX
}

func NewPostgresPaymentRepository(db DBTX) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{
		db: db,
	}
}

func (p *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
			booking_id,
			amount,
			status,
			method
		)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	return p.db.QueryRow(
		ctx,
		query,
		payment.BookingID,
		payment.Amount,
		payment.Status,
		payment.Method,
	).Scan(&payment.ID, &payment.CreatedAt)
}
