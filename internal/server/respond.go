package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/matzehuels/orbitdash/pkg/dashboard"
	orberrors "github.com/matzehuels/orbitdash/pkg/errors"
	"github.com/matzehuels/orbitdash/pkg/session"
)

type ctxKey struct{}

// withSession attaches the caller's session, creating one (and setting the
// cookie) when the cookie is missing, unknown or expired.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *session.Session
		if c, err := r.Cookie(CookieName); err == nil {
			sess, err = s.store.Get(c.Value)
			if err != nil && !errors.Is(err, session.ErrNotFound) && !errors.Is(err, session.ErrExpired) {
				s.writeError(w, err)
				return
			}
		}
		if sess == nil {
			var err error
			sess, err = s.store.Create(r.Context())
			if err != nil {
				s.writeError(w, err)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			s.logger.Debug("session created", "id", sess.ID, "sessions", s.store.Len())
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(ctxKey{}).(*session.Session)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case orberrors.IsValidation(err):
		return http.StatusBadRequest
	case orberrors.Is(err, orberrors.ErrCodeNotFound), orberrors.Is(err, orberrors.ErrCodeSessionNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	var body errorBody
	body.Error.Code = string(orberrors.GetCode(err))
	if body.Error.Code == "" {
		body.Error.Code = string(orberrors.ErrCodeInternal)
	}
	body.Error.Message = orberrors.UserMessage(err)
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, body)
}

// isForm reports whether r came from an HTML form rather than an API client.
func isForm(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

// respond finishes a mutating request: forms go back to the page, API
// clients get the new frame.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, d *dashboard.Coordinator, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	if isForm(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, d.Frame())
}
