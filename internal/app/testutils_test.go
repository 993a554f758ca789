package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/metinatakli/seat-reservation/api"
	"github.com/metinatakli/seat-reservation/internal/auth"
	"github.com/metinatakli/seat-reservation/internal/booking"
	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/metinatakli/seat-reservation/internal/mailer"
	"github.com/metinatakli/seat-reservation/internal/mocks"
	"github.com/metinatakli/seat-reservation/internal/payment"
	"github.com/metinatakli/seat-reservation/internal/validator"
)

const testJWTSecret = "test-secret"

var (
	testUser  = domain.Identity{UserID: 1, Email: "jane@example.com"}
	otherUser = domain.Identity{UserID: 2, Email: "john@example.com"}
	testAdmin = domain.Identity{UserID: 99, Email: "admin@example.com", Role: domain.RoleAdmin}
)

type testEnv struct {
	app        *Application
	store      *mocks.MemoryStore
	mailer     *mailer.MockMailer
	showtimeID int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := mocks.NewMemoryStore()
	ctx := context.Background()

	movie := &domain.Movie{Title: "Dune: Part Two", Duration: 166}
	if err := store.Movies().Create(ctx, movie); err != nil {
		t.Fatal(err)
	}

	showtime := &domain.Showtime{
		MovieID:   movie.ID,
		Theatre:   "Grand",
		Screen:    "1",
		Date:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		StartTime: "19:30",
	}
	if err := store.Showtimes().CreateWithSeats(ctx, showtime, domain.DefaultSeatLayout); err != nil {
		t.Fatal(err)
	}

	mockMailer := mailer.NewMockMailer()

	return &testEnv{
		app:        newTestApplication(store, mockMailer),
		store:      store,
		mailer:     mockMailer,
		showtimeID: showtime.ID,
	}
}

func newTestApplication(store domain.Store, mailer mailer.Mailer) *Application {
	cfg := Config{
		Env:  "test",
		Auth: AuthConfig{JWTSecret: testJWTSecret},
		Booking: BookingConfig{
			LockTimeout: booking.DefaultLockTimeout,
			SeatPrice:   booking.DefaultSeatPrice,
			MaxSeats:    booking.DefaultMaxSeats,
		},
	}

	return NewApp(
		cfg,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		nil,
		validator.NewValidator(),
		mailer,
		scs.New(),
		store,
		payment.NewMockPaymentProvider(),
	)
}

func (e *testEnv) seat(t *testing.T, row string, number int) int {
	t.Helper()

	id := e.store.SeatID(e.showtimeID, row, number)
	if id == 0 {
		t.Fatalf("seat %s%d not found", row, number)
	}

	return id
}

// serve sends the request through the full router. A zero identity sends no
// credentials.
func (e *testEnv) serve(t *testing.T, method, url string, body any, identity domain.Identity) *httptest.ResponseRecorder {
	t.Helper()

	w, r := executeRequest(t, method, url, body)

	if identity.UserID != 0 {
		token, err := auth.IssueToken([]byte(testJWTSecret), identity, time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		r.Header.Set("Authorization", "Bearer "+token)
	}

	e.app.Routes().ServeHTTP(w, r)

	return w
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	var reader io.Reader = http.NoBody

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
