package app

import (
	"net/http"

	"github.com/metinatakli/seat-reservation/api"
)

func (app *Application) LockSeatsHandler(w http.ResponseWriter, r *http.Request) {
	var input api.LockSeatsRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	identity := app.contextGetIdentity(r)

	result, err := app.bookings.Lock(r.Context(), input.ShowtimeId, input.SeatIds, identity.UserID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.LockSeatsResponse{
		ShowtimeId: input.ShowtimeId,
		Seats:      toApiSeats(result.Seats),
		LockedAt:   result.LockedAt,
		ExpiresAt:  result.ExpiresAt,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ReleaseSeatsHandler(w http.ResponseWriter, r *http.Request) {
	var input api.ReleaseSeatsRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	identity := app.contextGetIdentity(r)

	released, err := app.bookings.Release(r.Context(), input.ShowtimeId, input.SeatIds, identity.UserID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.ReleaseSeatsResponse{
		Message:  "Seats released",
		Released: released,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
