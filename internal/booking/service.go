// Package booking implements the seat reservation engine: time-bounded seat locks,
// the confirm unit of work that turns a lock into a booking, and the read side that
// always observes expired locks as released.
package booking

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/metinatakli/seat-reservation/internal/payment"
	"github.com/shopspring/decimal"
)

const (
	DefaultLockTimeout = 3 * time.Minute
	DefaultMaxSeats    = 10
	maxCodeAttempts    = 5
)

var DefaultSeatPrice = decimal.NewFromInt(200)

type Service struct {
	store       domain.Store
	payments    domain.PaymentProvider
	lockTimeout time.Duration
	seatPrice   decimal.Decimal
	maxSeats    int
	now         func() time.Time
	newCode     func(time.Time) (string, error)
	logger      *slog.Logger
	metrics     *metrics
}

type Option func(*Service)

func WithLockTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

func WithSeatPrice(price decimal.Decimal) Option {
	return func(s *Service) {
		s.seatPrice = price
	}
}

// WithMaxSeats caps the seats of one lock or confirm request. Zero removes the cap.
func WithMaxSeats(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxSeats = n
		}
	}
}

// WithClock replaces time.Now. Tests use it to move across the lock timeout.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithCodeGenerator(fn func(time.Time) (string, error)) Option {
	return func(s *Service) {
		s.newCode = fn
	}
}

func WithPaymentProvider(provider domain.PaymentProvider) Option {
	return func(s *Service) {
		if provider != nil {
			s.payments = provider
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(store domain.Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		payments:    payment.NewMockPaymentProvider(),
		lockTimeout: DefaultLockTimeout,
		seatPrice:   DefaultSeatPrice,
		maxSeats:    DefaultMaxSeats,
		now:         time.Now,
		newCode:     NewBookingCode,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.metrics = newMetrics(s.logger)

	return s
}

func (s *Service) LockTimeout() time.Duration {
	return s.lockTimeout
}

// clock returns the current time at the precision Postgres stores, so a lock
// timestamp compares the same before and after a round trip.
func (s *Service) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *Service) ensureShowtime(ctx context.Context, showtimeID int) error {
	exists, err := s.store.Showtimes().Exists(ctx, showtimeID)
	if err != nil {
		return err
	}

	if !exists {
		return domain.ErrShowtimeNotFound
	}

	return nil
}

// selection returns the distinct seat ids of a lock or confirm request.
func (s *Service) selection(seatIDs []int) ([]int, error) {
	ids := uniqueSeatIDs(seatIDs)

	if len(ids) == 0 {
		return nil, domain.ErrNoSeatsSelected
	}

	if s.maxSeats > 0 && len(ids) > s.maxSeats {
		return nil, domain.ErrTooManySeats
	}

	return ids, nil
}

// uniqueSeatIDs returns the sorted distinct seat ids of the selection.
func uniqueSeatIDs(seatIDs []int) []int {
	ids := slices.Clone(seatIDs)
	slices.Sort(ids)

	return slices.Compact(ids)
}
