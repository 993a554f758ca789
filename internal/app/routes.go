package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)
	r.Use(app.authenticate)

	r.Get("/healthcheck", app.GetHealth)
	r.Get("/showtimes/{showtimeId}/seats", app.GetSeatMapHandler)

	r.Route("/bookings", func(r chi.Router) {
		r.Use(app.requireAuthentication)

		r.Post("/lock", app.LockSeatsHandler)
		r.Post("/release", app.ReleaseSeatsHandler)
		r.Post("/confirm", app.ConfirmBookingHandler)
		r.Get("/my", app.GetMyBookingsHandler)
		r.With(app.requireAdmin).Get("/", app.GetAllBookingsHandler)
		r.Get("/{code}", app.GetBookingByCodeHandler)
	})

	return r
}
