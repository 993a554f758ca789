package app

import (
	"fmt"
	"net/http"

	"github.com/metinatakli/seat-reservation/internal/domain"
)

const bookingConfirmationTemplate = "booking_confirmation.tmpl"

type bookingConfirmationData struct {
	Code        string
	MovieTitle  string
	Theatre     string
	Screen      string
	Date        string
	StartTime   string
	Seats       []string
	TotalAmount string
}

// sendBookingConfirmation e-mails the booking to the caller in the background.
// Callers without an e-mail address are skipped.
func (app *Application) sendBookingConfirmation(r *http.Request, identity domain.Identity, detail *domain.BookingDetail) {
	logger := app.contextGetLogger(r)

	if identity.Email == "" {
		logger.Debug("no e-mail address for booking confirmation", "code", detail.Code)
		return
	}

	data := bookingConfirmationData{
		Code:        detail.Code,
		MovieTitle:  detail.Showtime.MovieTitle,
		Theatre:     detail.Showtime.Theatre,
		Screen:      detail.Showtime.Screen,
		Date:        detail.Showtime.Date.Format("2006-01-02"),
		StartTime:   detail.Showtime.StartTime,
		Seats:       make([]string, len(detail.Seats)),
		TotalAmount: detail.TotalAmount.StringFixed(2),
	}

	for i, seat := range detail.Seats {
		data.Seats[i] = fmt.Sprintf("%s%d", seat.Row, seat.Number)
	}

	app.background(func() {
		err := app.mailer.Send(identity.Email, bookingConfirmationTemplate, data)
		if err != nil {
			logger.Error("failed to send booking confirmation", "code", detail.Code, "error", err)
		}
	})
}
