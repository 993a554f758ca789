package booking

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/metinatakli/seat-reservation/internal/booking"

type metrics struct {
	seatLocks     metric.Int64Counter
	lockConflicts metric.Int64Counter
	confirmed     metric.Int64Counter
	expiredLocks  metric.Int64Counter
}

// newMetrics registers the booking counters on the global meter provider and
// falls back to no-op counters if registration fails.
func newMetrics(logger *slog.Logger) *metrics {
	m, err := registerMetrics(otel.Meter(meterName))
	if err != nil {
		logger.Error("failed to register booking metrics", "error", err)
		m, _ = registerMetrics(noop.NewMeterProvider().Meter(meterName))
	}

	return m
}

func registerMetrics(meter metric.Meter) (*metrics, error) {
	seatLocks, err := meter.Int64Counter("booking.seat_locks",
		metric.WithDescription("Seats locked for a user"))
	if err != nil {
		return nil, err
	}

	lockConflicts, err := meter.Int64Counter("booking.lock_conflicts",
		metric.WithDescription("Lock requests rejected because a seat was not available"))
	if err != nil {
		return nil, err
	}

	confirmed, err := meter.Int64Counter("booking.confirmed",
		metric.WithDescription("Bookings confirmed"))
	if err != nil {
		return nil, err
	}

	expiredLocks, err := meter.Int64Counter("booking.expired_locks_released",
		metric.WithDescription("Seat locks released after the lock timeout"))
	if err != nil {
		return nil, err
	}

	return &metrics{
		seatLocks:     seatLocks,
		lockConflicts: lockConflicts,
		confirmed:     confirmed,
		expiredLocks:  expiredLocks,
	}, nil
}
