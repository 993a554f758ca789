package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/seat-reservation/api"
	"github.com/metinatakli/seat-reservation/internal/booking"
	"github.com/metinatakli/seat-reservation/internal/domain"
)

func (app *Application) ConfirmBookingHandler(w http.ResponseWriter, r *http.Request) {
	var input api.ConfirmBookingRequest

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

	detail, err := app.bookings.Confirm(r.Context(), booking.ConfirmInput{
		ShowtimeID:  input.ShowtimeId,
		SeatIDs:     input.SeatIds,
		UserID:      identity.UserID,
		TotalAmount: input.TotalAmount,
	})
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.sendBookingConfirmation(r, identity, detail)

	err = app.writeJSON(w, http.StatusCreated, toApiBooking(*detail), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMyBookingsHandler(w http.ResponseWriter, r *http.Request) {
	params := app.readListParams(r)

	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	identity := app.contextGetIdentity(r)

	bookings, metadata, err := app.bookings.BookingsForUser(r.Context(), identity.UserID, toPagination(params))
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.writeBookings(w, r, bookings, metadata)
}

func (app *Application) GetAllBookingsHandler(w http.ResponseWriter, r *http.Request) {
	params := app.readListParams(r)

	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	bookings, metadata, err := app.bookings.AllBookings(r.Context(), toPagination(params))
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.writeBookings(w, r, bookings, metadata)
}

func (app *Application) GetBookingByCodeHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	// Malformed codes cannot exist, so they get the same answer as unknown ones.
	if err := app.validator.Var(code, "booking_code"); err != nil {
		app.bookingErrorResponse(w, r, domain.ErrBookingNotFound)
		return
	}

	detail, err := app.bookings.BookingByCode(r.Context(), code, app.contextGetIdentity(r))
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiBooking(*detail), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) writeBookings(
	w http.ResponseWriter,
	r *http.Request,
	bookings []domain.BookingDetail,
	metadata *domain.Metadata) {

	resp := api.BookingsResponse{
		Bookings: make([]api.Booking, len(bookings)),
		Metadata: toApiMetadata(metadata),
	}

	for i, v := range bookings {
		resp.Bookings[i] = toApiBooking(v)
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiBooking(detail domain.BookingDetail) api.Booking {
	booking := api.Booking{
		Code:        detail.Code,
		Status:      string(detail.Status),
		UserId:      detail.UserID,
		Showtime:    toApiShowtime(detail.Showtime),
		Seats:       toApiSeats(detail.Seats),
		TotalAmount: detail.TotalAmount,
		CreatedAt:   detail.CreatedAt,
	}

	if detail.Payment != nil {
		booking.Payment = &api.Payment{
			Amount:    detail.Payment.Amount,
			Status:    string(detail.Payment.Status),
			Method:    detail.Payment.Method,
			CreatedAt: detail.Payment.CreatedAt,
		}
	}

	return booking
}
