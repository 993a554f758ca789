package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/metinatakli/seat-reservation/internal/auth"
	"github.com/metinatakli/seat-reservation/internal/domain"
)

func (app *Application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")

				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// authenticate resolves the caller from a bearer token or, failing that, from the
// session. Requests without either continue anonymously.
func (app *Application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		authorizationHeader := r.Header.Get("Authorization")
		if authorizationHeader != "" {
			headerParts := strings.Split(authorizationHeader, " ")
			if len(headerParts) != 2 || headerParts[0] != "Bearer" {
				app.invalidAuthenticationTokenResponse(w, r)
				return
			}

			identity, err := auth.ParseToken([]byte(app.config.Auth.JWTSecret), headerParts[1])
			if err != nil {
				app.contextGetLogger(r).Debug("bearer token rejected", "error", err)
				app.invalidAuthenticationTokenResponse(w, r)
				return
			}

			next.ServeHTTP(w, app.contextSetIdentity(r, identity))
			return
		}

		userId := app.sessionManager.GetInt(r.Context(), SessionKeyUserId.String())
		if userId != 0 {
			identity := domain.Identity{
				UserID: userId,
				Role:   app.sessionManager.GetString(r.Context(), SessionKeyRole.String()),
				Email:  app.sessionManager.GetString(r.Context(), SessionKeyEmail.String()),
			}

			r = app.contextSetIdentity(r, identity)
		}

		next.ServeHTTP(w, r)
	})
}

func (app *Application) requireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := app.contextLookupIdentity(r); !ok {
			app.unauthorizedAccessResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (app *Application) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.contextGetIdentity(r).IsPrivileged() {
			app.forbiddenResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
