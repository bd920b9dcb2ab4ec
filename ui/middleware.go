package ui

import (
	"context"
	"net/http"

	"titanicdash/domain/core"
)

const sessionCookie = "titanicdash_session"

type sessionKey struct{}

// withSession attaches the caller's session ID to the request context,
// issuing a new cookie when the request has none or an invalid one.
func (a *App) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id core.SessionID
		if c, err := r.Cookie(sessionCookie); err == nil {
			if parsed, err := core.ParseSessionID(c.Value); err == nil {
				id = parsed
			}
		}
		if id == "" {
			id = core.NewSessionID()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id.String(),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
	})
}

func sessionFrom(r *http.Request) core.SessionID {
	if id, ok := r.Context().Value(sessionKey{}).(core.SessionID); ok {
		return id
	}
	return core.NewSessionID()
}
