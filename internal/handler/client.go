package handler

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
)

const (
	ClientIDHeader  = "X-Client-ID"
	ClientIDCookie  = "client_id"
	clientCookieTTL = 365 * 24 * time.Hour
)

type clientIDKey struct{}

var clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// ClientIdentity resolves who the favorites belong to: a valid X-Client-ID
// header, then a valid client_id cookie, else a new UUID handed back as a
// cookie.
func ClientIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(ClientIDHeader)
		if !clientIDPattern.MatchString(id) {
			id = ""
			if c, err := r.Cookie(ClientIDCookie); err == nil {
				id = c.Value
			}
		}
		if !clientIDPattern.MatchString(id) {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     ClientIDCookie,
				Value:    id,
				Path:     "/",
				Expires:  time.Now().Add(clientCookieTTL),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientIDKey{}, id)))
	})
}

func clientID(r *http.Request) string {
	id, _ := r.Context().Value(clientIDKey{}).(string)
	return id
}
