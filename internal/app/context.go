package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/seat-reservation/internal/domain"
)

type sessionKey string

const (
	SessionKeyUserId = sessionKey("userID")
	SessionKeyRole   = sessionKey("role")
	SessionKeyEmail  = sessionKey("email")
)

func (s sessionKey) String() string {
	return string(s)
}

type contextKey string

const identityContextKey = contextKey("identity")

func (app *Application) contextSetIdentity(r *http.Request, identity domain.Identity) *http.Request {
	ctx := context.WithValue(r.Context(), identityContextKey, identity)
	return r.WithContext(ctx)
}

func (app *Application) contextLookupIdentity(r *http.Request) (domain.Identity, bool) {
	identity, ok := r.Context().Value(identityContextKey).(domain.Identity)
	return identity, ok
}

// contextGetIdentity must only be used behind requireAuthentication.
func (app *Application) contextGetIdentity(r *http.Request) domain.Identity {
	identity, ok := app.contextLookupIdentity(r)
	if !ok {
		panic("missing identity from context")
	}

	return identity
}

func (app *Application) contextGetLogger(r *http.Request) *slog.Logger {
	logger := app.logger.With("request_id", middleware.GetReqID(r.Context()))

	if identity, ok := app.contextLookupIdentity(r); ok {
		logger = logger.With("user_id", identity.UserID)
	}

	return logger
}
