package integration_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/metinatakli/seat-reservation/api"
	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type BookingsTestSuite struct {
	BaseSuite
}

func TestBookingsSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	suite.Run(t, new(BookingsTestSuite))
}

func (s *BookingsTestSuite) TestLockSeats() {
	scenarios := []Scenario{
		{
			Name:             "returns 401 without a token",
			Method:           "POST",
			URL:              "/bookings/lock",
			Body:             jsonBody(`{"showtimeId": 1, "seatIds": [1]}`),
			ExpectedStatus:   http.StatusUnauthorized,
			ExpectedResponse: `{"message": "You must be authenticated to access this resource"}`,
		},
		{
			Name:             "returns 404 for seats of another showtime",
			Method:           "POST",
			URL:              "/bookings/lock",
			Body:             jsonBody(`{"showtimeId": 1, "seatIds": [51]}`),
			Headers:          bearer(s.T(), TestUser),
			ExpectedStatus:   http.StatusNotFound,
			ExpectedResponse: `{"message": "one or more seats do not exist for this showtime"}`,
		},
		{
			Name:           "locks available seats",
			Method:         "POST",
			URL:            "/bookings/lock",
			Body:           jsonBody(`{"showtimeId": 1, "seatIds": [2, 1]}`),
			Headers:        bearer(s.T(), TestUser),
			ExpectedStatus: http.StatusOK,
			ExpectedResponse: `{
				"showtimeId": 1,
				"seats": [
					{"id": 1, "row": "A", "number": 1, "status": "locked"},
					{"id": 2, "row": "A", "number": 2, "status": "locked"}
				]
			}`,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				assert.Equal(t, domain.SeatStatusLocked, seatStatus(t, app.DB, 1))
				assert.Equal(t, domain.SeatStatusLocked, seatStatus(t, app.DB, 2))
				assert.Equal(t, domain.SeatStatusAvailable, seatStatus(t, app.DB, 3))
			},
		},
		{
			Name:           "rejects the whole selection when one seat is taken",
			Method:         "POST",
			URL:            "/bookings/lock",
			Body:           jsonBody(`{"showtimeId": 1, "seatIds": [1, 3]}`),
			Headers:        bearer(s.T(), OtherUser),
			ExpectedStatus: http.StatusConflict,
			ExpectedResponse: `{
				"message": "one or more seats are no longer available"
			}`,
			BeforeTestFunc: func(t testing.TB, app *TestApp) {
				_, err := app.App.Bookings().Lock(context.Background(), TestShowtimeId, []int{1, 2}, TestUser.UserID)
				require.NoError(t, err)
			},
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				assert.Equal(t, domain.SeatStatusAvailable, seatStatus(t, app.DB, 3))
			},
		},
		{
			Name:           "locks seats again once the previous lock expired",
			Method:         "POST",
			URL:            "/bookings/lock",
			Body:           jsonBody(`{"showtimeId": 1, "seatIds": [1]}`),
			Headers:        bearer(s.T(), OtherUser),
			ExpectedStatus: http.StatusOK,
			BeforeTestFunc: func(t testing.TB, app *TestApp) {
				_, err := app.App.Bookings().Lock(context.Background(), TestShowtimeId, []int{1}, TestUser.UserID)
				require.NoError(t, err)

				ageLocks(t, app.DB, app.App.Bookings().LockTimeout())
			},
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}

func (s *BookingsTestSuite) TestReleaseSeats() {
	scenarios := []Scenario{
		{
			Name:             "releases only the caller's locks",
			Method:           "POST",
			URL:              "/bookings/release",
			Body:             jsonBody(`{"showtimeId": 1, "seatIds": [1, 2, 3]}`),
			Headers:          bearer(s.T(), TestUser),
			ExpectedStatus:   http.StatusOK,
			ExpectedResponse: `{"message": "Seats released", "released": 2}`,
			BeforeTestFunc: func(t testing.TB, app *TestApp) {
				ctx := context.Background()

				_, err := app.App.Bookings().Lock(ctx, TestShowtimeId, []int{1, 2}, TestUser.UserID)
				require.NoError(t, err)

				_, err = app.App.Bookings().Lock(ctx, TestShowtimeId, []int{3}, OtherUser.UserID)
				require.NoError(t, err)
			},
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				assert.Equal(t, domain.SeatStatusAvailable, seatStatus(t, app.DB, 1))
				assert.Equal(t, domain.SeatStatusAvailable, seatStatus(t, app.DB, 2))
				assert.Equal(t, domain.SeatStatusLocked, seatStatus(t, app.DB, 3))
			},
		},
		{
			Name:             "is a no-op for an empty selection",
			Method:           "POST",
			URL:              "/bookings/release",
			Body:             jsonBody(`{"showtimeId": 1, "seatIds": []}`),
			Headers:          bearer(s.T(), TestUser),
			ExpectedStatus:   http.StatusOK,
			ExpectedResponse: `{"message": "Seats released", "released": 0}`,
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}

func (s *BookingsTestSuite) TestConfirmBooking() {
	scenarios := []Scenario{
		{
			Name:           "confirms locked seats",
			Method:         "POST",
			URL:            "/bookings/confirm",
			Body:           jsonBody(`{"showtimeId": 1, "seatIds": [1, 2], "totalAmount": "400"}`),
			Headers:        bearer(s.T(), TestUser),
			ExpectedStatus: http.StatusCreated,
			ExpectedResponse: `{
				"status": "confirmed",
				"userId": 1,
				"showtime": {
					"id": 1,
					"movieTitle": "Test Movie",
					"theatre": "Grand",
					"screen": "1",
					"date": "2025-03-01",
					"startTime": "19:30"
				},
				"seats": [
					{"id": 1, "row": "A", "number": 1, "status": "booked"},
					{"id": 2, "row": "A", "number": 2, "status": "booked"}
				],
				"totalAmount": "400",
				"payment": {"amount": "400", "status": "success", "method": "mock"}
			}`,
			BeforeTestFunc: func(t testing.TB, app *TestApp) {
				_, err := app.App.Bookings().Lock(context.Background(), TestShowtimeId, []int{1, 2}, TestUser.UserID)
				require.NoError(t, err)
			},
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				assert.Equal(t, 1, countRows(t, app.DB, "bookings"))
				assert.Equal(t, 2, countRows(t, app.DB, "booking_seats"))
				assert.Equal(t, 1, countRows(t, app.DB, "payments"))
			},
		},
		{
			Name:             "rejects seats whose lock expired",
			Method:           "POST",
			URL:              "/bookings/confirm",
			Body:             jsonBody(`{"showtimeId": 1, "seatIds": [1]}`),
			Headers:          bearer(s.T(), TestUser),
			ExpectedStatus:   http.StatusConflict,
			ExpectedResponse: `{"message": "your seat locks have expired or are not held by you, please select your seats again"}`,
			BeforeTestFunc: func(t testing.TB, app *TestApp) {
				_, err := app.App.Bookings().Lock(context.Background(), TestShowtimeId, []int{1}, TestUser.UserID)
				require.NoError(t, err)

				ageLocks(t, app.DB, app.App.Bookings().LockTimeout()+time.Second)
			},
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				assert.Zero(t, countRows(t, app.DB, "bookings"))
				assert.Equal(t, domain.SeatStatusAvailable, seatStatus(t, app.DB, 1))
			},
		},
		{
			Name:             "rejects seats held by someone else",
			Method:           "POST",
			URL:              "/bookings/confirm",
			Body:             jsonBody(`{"showtimeId": 1, "seatIds": [1]}`),
			Headers:          bearer(s.T(), OtherUser),
			ExpectedStatus:   http.StatusConflict,
			ExpectedResponse: `{"message": "your seat locks have expired or are not held by you, please select your seats again"}`,
			BeforeTestFunc: func(t testing.TB, app *TestApp) {
				_, err := app.App.Bookings().Lock(context.Background(), TestShowtimeId, []int{1}, TestUser.UserID)
				require.NoError(t, err)
			},
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				assert.Zero(t, countRows(t, app.DB, "bookings"))
				assert.Equal(t, domain.SeatStatusLocked, seatStatus(t, app.DB, 1))
			},
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}

// TestLockConfirmFlow walks through a contested lock followed by a confirm.
func (s *BookingsTestSuite) TestLockConfirmFlow() {
	t := s.T()
	handler := s.app.App.Routes()

	do := func(method, url, body string, identity domain.Identity) *http.Response {
		req, err := prepareRequest(method, url, jsonBody(body), bearer(t, identity))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		return rec.Result()
	}

	res := do("POST", "/bookings/lock", `{"showtimeId": 1, "seatIds": [1, 2]}`, TestUser)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var lock api.LockSeatsResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&lock))
	assert.Equal(t, lock.LockedAt.Add(180*time.Second), lock.ExpiresAt)

	res = do("POST", "/bookings/lock", `{"showtimeId": 1, "seatIds": [1, 3]}`, OtherUser)
	require.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, domain.SeatStatusAvailable, seatStatus(t, s.app.DB, 3))

	res = do("POST", "/bookings/confirm", `{"showtimeId": 1, "seatIds": [1, 2], "totalAmount": "400"}`, TestUser)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var confirmed api.Booking
	require.NoError(t, json.NewDecoder(res.Body).Decode(&confirmed))
	assert.Regexp(t, `^MTB-\d{8}-[0-9A-Z]{6}$`, confirmed.Code)
	assert.Equal(t, "confirmed", confirmed.Status)
	assert.Equal(t, "400", confirmed.TotalAmount.String())
	require.NotNil(t, confirmed.Payment)
	assert.Equal(t, "success", confirmed.Payment.Status)

	res = do("GET", "/showtimes/1/seats", "", TestUser)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var seatMap api.SeatMapResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&seatMap))
	assert.Equal(t, api.Booked, seatMap.SeatRows[0].Seats[0].Status)
	assert.Equal(t, api.Booked, seatMap.SeatRows[0].Seats[1].Status)
	assert.Equal(t, api.Available, seatMap.SeatRows[0].Seats[2].Status)

	res = do("GET", "/bookings/"+confirmed.Code, "", TestUser)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = do("GET", "/bookings/"+confirmed.Code, "", OtherUser)
	require.Equal(t, http.StatusNotFound, res.StatusCode)

	res = do("GET", "/bookings/"+confirmed.Code, "", TestAdmin)
	require.Equal(t, http.StatusOK, res.StatusCode)

	require.Eventually(t, func() bool {
		return len(s.app.Mailer.GetSentEmails()) > 0
	}, 2*time.Second, 20*time.Millisecond)
}

// TestExpiredLockIsSweptOnRead leaves a lock past its timeout and checks that the
// next seat map read releases it.
func (s *BookingsTestSuite) TestExpiredLockIsSweptOnRead() {
	ctx := context.Background()
	service := s.app.App.Bookings()

	_, err := service.Lock(ctx, TestShowtimeId, []int{1}, TestUser.UserID)
	s.Require().NoError(err)

	ageLocks(s.T(), s.app.DB, service.LockTimeout()+time.Second)

	// the row still says locked until something sweeps
	s.Equal(domain.SeatStatusLocked, seatStatus(s.T(), s.app.DB, 1))

	seatMap, err := service.SeatMap(ctx, TestShowtimeId)
	s.Require().NoError(err)
	s.Equal(domain.SeatStatusAvailable, seatMap.Seats[0].Status)
	s.Nil(seatMap.Seats[0].LockedAt)
	s.Nil(seatMap.Seats[0].LockedBy)

	s.Equal(domain.SeatStatusAvailable, seatStatus(s.T(), s.app.DB, 1))
}

func (s *BookingsTestSuite) TestConcurrentLocksOnSameSeat() {
	const contenders = 10

	ctx := context.Background()
	service := s.app.App.Bookings()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   []int
		conflicts int
	)

	start := make(chan struct{})

	for user := 1; user <= contenders; user++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start

			_, err := service.Lock(ctx, TestShowtimeId, []int{1, 2}, user)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				winners = append(winners, user)
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			default:
				s.Fail("unexpected error", "user %d: %v", user, err)
			}
		}()
	}

	close(start)
	wg.Wait()

	s.Require().Len(winners, 1)
	s.Equal(contenders-1, conflicts)

	seats, err := s.app.Store.Seats().GetByIDs(ctx, TestShowtimeId, []int{1, 2})
	s.Require().NoError(err)
	for _, seat := range seats {
		s.True(seat.IsLockedBy(winners[0]), "seat %d", seat.ID)
	}
}

func (s *BookingsTestSuite) TestConcurrentConfirmsBookOnce() {
	ctx := context.Background()
	service := s.app.App.Bookings()

	_, err := service.Lock(ctx, TestShowtimeId, []int{1, 2}, TestUser.UserID)
	s.Require().NoError(err)

	const attempts = 5

	var (
		wg        sync.WaitGroup
		succeeded int
		mu        sync.Mutex
	)

	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := service.Confirm(ctx, confirmInput(TestUser, 1, 2))

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else {
				s.ErrorIs(err, domain.ErrConflict)
			}
		}()
	}

	wg.Wait()

	s.Equal(1, succeeded)
	s.Equal(1, countRows(s.T(), s.app.DB, "bookings"))
	s.Equal(1, countRows(s.T(), s.app.DB, "payments"))
}

func (s *BookingsTestSuite) TestListBookings() {
	ctx := context.Background()
	service := s.app.App.Bookings()

	for i, identity := range []domain.Identity{TestUser, TestUser, OtherUser} {
		seat := i + 1

		_, err := service.Lock(ctx, TestShowtimeId, []int{seat}, identity.UserID)
		s.Require().NoError(err)

		_, err = service.Confirm(ctx, confirmInput(identity, seat))
		s.Require().NoError(err)
	}

	scenarios := []Scenario{
		{
			Name:           "lists the caller's bookings",
			Method:         "GET",
			URL:            "/bookings/my?page=1&pageSize=1",
			Headers:        bearer(s.T(), TestUser),
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				var resp api.BookingsResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))

				require.Len(t, resp.Bookings, 1)
				assert.Equal(t, TestUser.UserID, resp.Bookings[0].UserId)
				assert.Equal(t, api.Metadata{CurrentPage: 1, FirstPage: 1, LastPage: 2, PageSize: 1, TotalRecords: 2}, resp.Metadata)
			},
		},
		{
			Name:             "forbids listing every booking to regular users",
			Method:           "GET",
			URL:              "/bookings/",
			Headers:          bearer(s.T(), TestUser),
			ExpectedStatus:   http.StatusForbidden,
			ExpectedResponse: `{"message": "Your account doesn't have the necessary permissions to access this resource"}`,
		},
		{
			Name:           "lists every booking to admins",
			Method:         "GET",
			URL:            "/bookings/",
			Headers:        bearer(s.T(), TestAdmin),
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				var resp api.BookingsResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))

				assert.Len(t, resp.Bookings, 3)
				assert.Equal(t, 3, resp.Metadata.TotalRecords)
			},
		},
	}

	for _, scenario := range scenarios {
		// the scenarios read the bookings created above
		s.T().Run(scenario.Name, func(t *testing.T) {
			req, err := prepareRequest(scenario.Method, scenario.URL, scenario.Body, scenario.Headers)
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			s.app.App.Routes().ServeHTTP(rec, req)

			res := rec.Result()
			defer res.Body.Close()

			assert.Equal(t, scenario.ExpectedStatus, res.StatusCode, fmt.Sprintf("%s %s", scenario.Method, scenario.URL))

			if scenario.ExpectedResponse != "" {
				compareResponse(t, res.Body, scenario.ExpectedResponse)
			}
			if scenario.AfterTestFunc != nil {
				scenario.AfterTestFunc(t, s.app, res)
			}
		})
	}
}
