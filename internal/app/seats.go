package app

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/seat-reservation/api"
	"github.com/metinatakli/seat-reservation/internal/booking"
	"github.com/metinatakli/seat-reservation/internal/domain"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

func (app *Application) GetSeatMapHandler(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := strconv.Atoi(chi.URLParam(r, "showtimeId"))
	if err != nil || showtimeID < 1 {
		app.badRequestResponse(w, r, errors.New("showtime ID must be greater than zero"))
		return
	}

	seatMap, err := app.bookings.SeatMap(r.Context(), showtimeID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := toSeatMapResponse(seatMap)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toSeatMapResponse(seatMap *booking.SeatMap) api.SeatMapResponse {
	return api.SeatMapResponse{
		Showtime: toApiShowtime(seatMap.Showtime),
		SeatRows: toSeatRows(seatMap.Seats),
	}
}

func toApiShowtime(showtime domain.Showtime) api.Showtime {
	return api.Showtime{
		Id:         showtime.ID,
		MovieTitle: showtime.MovieTitle,
		Theatre:    showtime.Theatre,
		Screen:     showtime.Screen,
		Date:       openapi_types.Date{Time: showtime.Date},
		StartTime:  showtime.StartTime,
	}
}

func toSeatRows(seats []domain.Seat) []api.SeatRow {
	seatRows := make([]api.SeatRow, 0)
	if len(seats) == 0 {
		return seatRows
	}

	// Seats are pre-sorted by Row,Number (ascending).
	// This allows us to process them in a single pass without additional sorting or mapping.
	currentRow := api.SeatRow{Row: seats[0].Row}

	for _, v := range seats {
		if v.Row != currentRow.Row {
			seatRows = append(seatRows, currentRow)
			currentRow = api.SeatRow{Row: v.Row}
		}

		currentRow.Seats = append(currentRow.Seats, toApiSeat(v))
	}

	seatRows = append(seatRows, currentRow)

	return seatRows
}

func toApiSeat(seat domain.Seat) api.Seat {
	return api.Seat{
		Id:     seat.ID,
		Row:    seat.Row,
		Number: seat.Number,
		Status: api.SeatStatus(seat.Status),
	}
}

func toApiSeats(seats []domain.Seat) []api.Seat {
	apiSeats := make([]api.Seat, len(seats))

	for i, v := range seats {
		apiSeats[i] = toApiSeat(v)
	}

	return apiSeats
}
