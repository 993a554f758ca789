package mocks

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/seat-reservation/internal/domain"
)

// StoreHooks let tests fail a call inside a unit of work. A non-nil error from a
// hook is returned before the call touches the state.
type StoreHooks struct {
	BeforeBookingCreate  func(booking *domain.Booking) error
	BeforeSeatTransition func(filter domain.SeatFilter, change domain.SeatChange) error
	BeforePaymentCreate  func(payment *domain.Payment) error
	BeforeBookingRead    func(code string) error
}

type memoryState struct {
	nextMovieID    int
	nextShowtimeID int
	nextSeatID     int
	nextPaymentID  int

	movies    map[int]domain.Movie
	showtimes map[int]domain.Showtime
	seats     map[int]domain.Seat
	bookings  []domain.Booking
	payments  map[uuid.UUID]domain.Payment
}

func (s *memoryState) clone() *memoryState {
	c := *s
	c.movies = maps.Clone(s.movies)
	c.showtimes = maps.Clone(s.showtimes)
	c.seats = maps.Clone(s.seats)
	c.bookings = slices.Clone(s.bookings)
	c.payments = maps.Clone(s.payments)

	return &c
}

// MemoryStore is an in-memory domain.Store. Every operation is atomic with
// respect to the others, and Atomic restores the previous state when fn fails.
type MemoryStore struct {
	mu    *sync.Mutex
	state **memoryState
	inTx  bool

	Hooks *StoreHooks
	Now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	state := &memoryState{
		movies:    make(map[int]domain.Movie),
		showtimes: make(map[int]domain.Showtime),
		seats:     make(map[int]domain.Seat),
		payments:  make(map[uuid.UUID]domain.Payment),
	}

	return &MemoryStore{
		mu:    &sync.Mutex{},
		state: &state,
		Hooks: &StoreHooks{},
		Now:   time.Now,
	}
}

func (m *MemoryStore) Seats() domain.SeatRepository         { return memorySeats{m} }
func (m *MemoryStore) Showtimes() domain.ShowtimeRepository { return memoryShowtimes{m} }
func (m *MemoryStore) Movies() domain.MovieRepository       { return memoryMovies{m} }
func (m *MemoryStore) Bookings() domain.BookingRepository   { return memoryBookings{m} }
func (m *MemoryStore) Payments() domain.PaymentRepository   { return memoryPayments{m} }

func (m *MemoryStore) Atomic(ctx context.Context, fn func(domain.Store) error) error {
	if m.inTx {
		return fn(m)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := (*m.state).clone()

	tx := *m
	tx.inTx = true

	err := fn(&tx)
	if err != nil {
		*m.state = snapshot
	}

	return err
}

func (m *MemoryStore) with(fn func(s *memoryState) error) error {
	if !m.inTx {
		m.mu.Lock()
		defer m.mu.Unlock()
	}

	return fn(*m.state)
}

// Seat returns a copy of the seat with the given id.
func (m *MemoryStore) Seat(id int) domain.Seat {
	var seat domain.Seat
	m.with(func(s *memoryState) error {
		seat = s.seats[id]
		return nil
	})
	return seat
}

// SeatID returns the id of the seat at row and number of a showtime, or 0.
func (m *MemoryStore) SeatID(showtimeID int, row string, number int) int {
	id := 0
	m.with(func(s *memoryState) error {
		for _, seat := range s.seats {
			if seat.ShowtimeID == showtimeID && seat.Row == row && seat.Number == number {
				id = seat.ID
			}
		}
		return nil
	})
	return id
}

func (m *MemoryStore) BookingCount() int {
	n := 0
	m.with(func(s *memoryState) error {
		n = len(s.bookings)
		return nil
	})
	return n
}

func (m *MemoryStore) PaymentCount() int {
	n := 0
	m.with(func(s *memoryState) error {
		n = len(s.payments)
		return nil
	})
	return n
}

type memorySeats struct{ m *MemoryStore }

func (r memorySeats) GetByShowtime(ctx context.Context, showtimeID int) ([]domain.Seat, error) {
	return r.find(domain.SeatFilter{ShowtimeID: showtimeID})
}

func (r memorySeats) GetByIDs(ctx context.Context, showtimeID int, seatIDs []int) ([]domain.Seat, error) {
	if len(seatIDs) == 0 {
		return []domain.Seat{}, nil
	}
	return r.find(domain.SeatFilter{ShowtimeID: showtimeID, SeatIDs: seatIDs})
}

func (r memorySeats) find(filter domain.SeatFilter) ([]domain.Seat, error) {
	seats := make([]domain.Seat, 0)

	err := r.m.with(func(s *memoryState) error {
		for _, seat := range s.seats {
			if filter.Matches(seat) {
				seats = append(seats, seat)
			}
		}
		return nil
	})

	sortSeats(seats)

	return seats, err
}

func (r memorySeats) Transition(ctx context.Context, filter domain.SeatFilter, change domain.SeatChange) (int, error) {
	moved := 0

	err := r.m.with(func(s *memoryState) error {
		if hook := r.m.Hooks.BeforeSeatTransition; hook != nil {
			if err := hook(filter, change); err != nil {
				return err
			}
		}

		for id, seat := range s.seats {
			if filter.Matches(seat) {
				s.seats[id] = change.Apply(seat)
				moved++
			}
		}
		return nil
	})

	return moved, err
}

func (r memorySeats) CreateBatch(ctx context.Context, seats []domain.Seat) error {
	return r.m.with(func(s *memoryState) error {
		for _, seat := range seats {
			s.nextSeatID++
			seat.ID = s.nextSeatID
			s.seats[seat.ID] = seat
		}
		return nil
	})
}

type memoryShowtimes struct{ m *MemoryStore }

func (r memoryShowtimes) Exists(ctx context.Context, id int) (bool, error) {
	exists := false
	err := r.m.with(func(s *memoryState) error {
		_, exists = s.showtimes[id]
		return nil
	})
	return exists, err
}

func (r memoryShowtimes) GetById(ctx context.Context, id int) (*domain.Showtime, error) {
	var showtime domain.Showtime

	err := r.m.with(func(s *memoryState) error {
		found, ok := s.showtimes[id]
		if !ok {
			return domain.ErrShowtimeNotFound
		}
		showtime = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &showtime, nil
}

func (r memoryShowtimes) CreateWithSeats(ctx context.Context, showtime *domain.Showtime, layout domain.SeatLayout) error {
	err := r.m.with(func(s *memoryState) error {
		s.nextShowtimeID++
		showtime.ID = s.nextShowtimeID
		showtime.CreatedAt = r.m.Now()
		if movie, ok := s.movies[showtime.MovieID]; ok {
			showtime.MovieTitle = movie.Title
		}
		s.showtimes[showtime.ID] = *showtime
		return nil
	})
	if err != nil {
		return err
	}

	return memorySeats(r).CreateBatch(ctx, layout.Seats(showtime.ID))
}

type memoryMovies struct{ m *MemoryStore }

func (r memoryMovies) Create(ctx context.Context, movie *domain.Movie) error {
	return r.m.with(func(s *memoryState) error {
		s.nextMovieID++
		movie.ID = s.nextMovieID
		movie.CreatedAt = r.m.Now()
		s.movies[movie.ID] = *movie
		return nil
	})
}

func (r memoryMovies) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	var movie domain.Movie

	err := r.m.with(func(s *memoryState) error {
		found, ok := s.movies[id]
		if !ok {
			return domain.ErrRecordNotFound
		}
		movie = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

type memoryBookings struct{ m *MemoryStore }

func (r memoryBookings) Create(ctx context.Context, booking *domain.Booking) error {
	return r.m.with(func(s *memoryState) error {
		if hook := r.m.Hooks.BeforeBookingCreate; hook != nil {
			if err := hook(booking); err != nil {
				return err
			}
		}

		for _, existing := range s.bookings {
			if existing.Code == booking.Code {
				return domain.ErrDuplicateBookingCode
			}
		}

		booking.CreatedAt = r.m.Now()

		stored := *booking
		stored.SeatIDs = slices.Clone(booking.SeatIDs)
		s.bookings = append(s.bookings, stored)
		return nil
	})
}

func (r memoryBookings) GetByCode(ctx context.Context, code string) (*domain.BookingDetail, error) {
	var detail *domain.BookingDetail

	err := r.m.with(func(s *memoryState) error {
		if hook := r.m.Hooks.BeforeBookingRead; hook != nil {
			if err := hook(code); err != nil {
				return err
			}
		}

		for _, booking := range s.bookings {
			if booking.Code == code {
				d := s.detail(booking)
				detail = &d
				return nil
			}
		}
		return domain.ErrBookingNotFound
	})

	return detail, err
}

func (r memoryBookings) GetAllByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingDetail, *domain.Metadata, error) {

	return r.page(pagination, func(b domain.Booking) bool { return b.UserID == userID })
}

func (r memoryBookings) GetAll(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.BookingDetail, *domain.Metadata, error) {

	return r.page(pagination, func(domain.Booking) bool { return true })
}

func (r memoryBookings) page(
	pagination domain.Pagination,
	keep func(domain.Booking) bool) ([]domain.BookingDetail, *domain.Metadata, error) {

	details := make([]domain.BookingDetail, 0)
	total := 0

	err := r.m.with(func(s *memoryState) error {
		offset, limit := pagination.Offset(), pagination.Limit()

		// newest first
		for i := len(s.bookings) - 1; i >= 0; i-- {
			if !keep(s.bookings[i]) {
				continue
			}
			if total >= offset && total < offset+limit {
				details = append(details, s.detail(s.bookings[i]))
			}
			total++
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return details, domain.NewMetadata(total, pagination.Page, pagination.PageSize), nil
}

func (s *memoryState) detail(booking domain.Booking) domain.BookingDetail {
	detail := domain.BookingDetail{
		Booking:  booking,
		Showtime: s.showtimes[booking.ShowtimeID],
		Seats:    make([]domain.Seat, 0, len(booking.SeatIDs)),
	}

	for _, id := range booking.SeatIDs {
		detail.Seats = append(detail.Seats, s.seats[id])
	}
	sortSeats(detail.Seats)

	if payment, ok := s.payments[booking.ID]; ok {
		detail.Payment = &payment
	}

	return detail
}

type memoryPayments struct{ m *MemoryStore }

func (r memoryPayments) Create(ctx context.Context, payment *domain.Payment) error {
	return r.m.with(func(s *memoryState) error {
		if hook := r.m.Hooks.BeforePaymentCreate; hook != nil {
			if err := hook(payment); err != nil {
				return err
			}
		}

		s.nextPaymentID++
		payment.ID = s.nextPaymentID
		payment.CreatedAt = r.m.Now()
		s.payments[payment.BookingID] = *payment
		return nil
	})
}

func sortSeats(seats []domain.Seat) {
	slices.SortFunc(seats, func(a, b domain.Seat) int {
		if a.Row != b.Row {
			if a.Row < b.Row {
				return -1
			}
			return 1
		}
		return a.Number - b.Number
	})
}
