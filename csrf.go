package main

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gorilla/securecookie"
)

const (
	csrfKey       = "csrf"
	csrfFieldName = "csrf_token"
	tokenBytes    = 32
)

var errNoEntropy = errors.New("generating random token: no entropy")

// generateToken returns a URL-safe random token of tokenBytes bytes.
func generateToken() (string, error) {
	key := securecookie.GenerateRandomKey(tokenBytes)
	if key == nil {
		return "", errNoEntropy
	}
	return base64.RawURLEncoding.EncodeToString(key), nil
}

// csrfToken returns the form token bound to the visitor's session, issuing
// one on first use. Forms echo it back in csrf_token.
func (b *Blog) csrfToken(w http.ResponseWriter, r *http.Request) string {
	s := b.session(r)
	if token, ok := s.Values[csrfKey].(string); ok && token != "" {
		return token
	}

	token, err := generateToken()
	if err != nil {
		b.log.Error("issuing csrf token", "error", err)
		return ""
	}
	s.Values[csrfKey] = token
	if err := s.Save(r, w); err != nil {
		b.log.Error("saving csrf token", "error", err)
		return ""
	}
	return token
}

// checkCSRF parses the submitted form and rejects it unless its token
// matches the one held in the session.
func (b *Blog) checkCSRF(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return false
	}

	want, _ := b.session(r).Values[csrfKey].(string)
	got := r.PostFormValue(csrfFieldName)
	if want == "" || got == "" || subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		b.log.Warn("rejecting form", "path", r.URL.Path, "has_session_token", want != "")
		http.Error(w, "Invalid CSRF token", http.StatusForbidden)
		return false
	}
	return true
}
