package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/lukecc25/Flowershop/internal/domain"
	"github.com/lukecc25/Flowershop/internal/session"
)

const sessionCookie = "session_id"

type contextKey string

const sessionContextKey contextKey = "shop_session"

// SessionLoader resolves the session cookie on every request. No cookie or
// an expired session just means an anonymous request; handlers that need a
// session create one via EnsureSession.
type SessionLoader struct {
	manager *session.Manager
}

func NewSessionLoader(manager *session.Manager) *SessionLoader {
	return &SessionLoader{manager: manager}
}

func (l *SessionLoader) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err == nil && cookie.Value != "" {
			sess, err := l.manager.Get(r.Context(), cookie.Value)
			if err == nil {
				r = r.WithContext(context.WithValue(r.Context(), sessionContextKey, sess))
			} else if !errors.Is(err, session.ErrSessionNotFound) {
				log.Printf("session load error: %v", err)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// EnsureSession returns the request's session, creating an anonymous one
// (and setting its cookie) on first cart interaction.
func (l *SessionLoader) EnsureSession(w http.ResponseWriter, r *http.Request) (*domain.Session, error) {
	if sess := SessionFromContext(r.Context()); sess != nil {
		return sess, nil
	}

	sess, err := l.manager.Create(r.Context())
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(session.DefaultTTL / time.Second),
	})
	return sess, nil
}

// ClearSessionCookie expires the cookie after logout.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func SessionFromContext(ctx context.Context) *domain.Session {
	if sess, ok := ctx.Value(sessionContextKey).(*domain.Session); ok {
		return sess
	}
	return nil
}

// RequireAuth rejects requests without a logged-in session.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromContext(r.Context())
		if sess == nil || !sess.IsLoggedIn() {
			respondError(w, http.StatusUnauthorized, "unauthorized", "please log in to access this resource")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests from sessions without the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromContext(r.Context())
		if sess == nil || !sess.IsLoggedIn() {
			respondError(w, http.StatusUnauthorized, "unauthorized", "please log in to access this resource")
			return
		}
		if !sess.IsAdmin() {
			respondError(w, http.StatusForbidden, "forbidden", "admin privileges required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
