package main

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName   = "postsweb"
	flashNotice   = "notice"
	flashError    = "error"
	themeKey      = "dark"
	sessionMaxAge = 30 * 24 * 60 * 60
)

func newSessionStore(key string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// session returns the visitor's session. A cookie that no longer decodes
// (for example after a key change) yields a fresh session.
func (b *Blog) session(r *http.Request) *sessions.Session {
	s, err := b.store.Get(r, sessionName)
	if err != nil {
		b.log.Debug("discarding unreadable session", "error", err)
	}
	return s
}

// flash stores banner for the next page the visitor loads.
func (b *Blog) flash(w http.ResponseWriter, r *http.Request, banner Banner) error {
	s := b.session(r)
	switch banner.Kind {
	case BannerSuccess:
		s.AddFlash(banner.Text, flashNotice)
	case BannerError:
		s.AddFlash(banner.Text, flashError)
	default:
		return nil
	}
	return s.Save(r, w)
}

// takeFlash pops the pending banner, if any. An error flash wins over a
// notice so only one banner is ever shown.
func (b *Blog) takeFlash(w http.ResponseWriter, r *http.Request) Banner {
	s := b.session(r)
	notices := s.Flashes(flashNotice)
	errs := s.Flashes(flashError)
	if len(notices) == 0 && len(errs) == 0 {
		return Banner{}
	}
	if err := s.Save(r, w); err != nil {
		b.log.Warn("clearing flash", "error", err)
	}

	if text, ok := last(errs); ok {
		return errorBanner(text)
	}
	if text, ok := last(notices); ok {
		return successBanner(text)
	}
	return Banner{}
}

func last(values []interface{}) (string, bool) {
	for i := len(values) - 1; i >= 0; i-- {
		if s, ok := values[i].(string); ok {
			return s, true
		}
	}
	return "", false
}

func (b *Blog) darkMode(r *http.Request) bool {
	dark, _ := b.session(r).Values[themeKey].(bool)
	return dark
}

func (b *Blog) toggleTheme(w http.ResponseWriter, r *http.Request) error {
	s := b.session(r)
	dark, _ := s.Values[themeKey].(bool)
	s.Values[themeKey] = !dark
	return s.Save(r, w)
}
