// Package session provides server-side HTTP sessions backed by a cache.Store
// (Redis or memory). The frontend uses it for flash messages.
//
// Usage (middleware):
//
//	sessions := session.NewManager(cache.Open(ctx), session.DefaultOptions())
//	r.Use(sessions.Middleware())
//
// Usage (handler):
//
//	sess := session.FromCtx(r)
//	sess.Flash(session.Success, "Registration successful! Please log in.")
//	_ = sess.Save(r.Context(), w)
//	...
//	for _, f := range sess.Flashes() { ... }
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/kashvi-shop/config"
	"github.com/shashiranjanraj/kashvi-shop/pkg/cache"
	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
	"github.com/shashiranjanraj/kashvi-shop/pkg/metrics"
)

// Flash categories understood by the frontend templates.
const (
	Success = "success"
	Error   = "error"
	Info    = "info"
)

// ------------------- Options -------------------

// Options configures session behaviour.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions returns sensible defaults. The cookie name comes from
// SESSION_COOKIE and Secure is set in production.
func DefaultOptions() Options {
	return Options{
		CookieName: config.SessionCookie(),
		TTL:        2 * time.Hour,
		HTTPOnly:   true,
		Secure:     config.IsProduction(),
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

// ------------------- Session -------------------

type ctxKey struct{}

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type payload struct {
	Values  map[string]string `json:"values,omitempty"`
	Flashes []Flash           `json:"flashes,omitempty"`
}

// Session is an in-request session handle.
type Session struct {
	id      string
	data    payload
	store   cache.Store
	opts    Options
	changed bool
}

func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func storeKey(id string) string { return "shop:session:" + id }

// Set stores a value under key in the session.
func (s *Session) Set(key, value string) {
	if s.data.Values == nil {
		s.data.Values = map[string]string{}
	}
	s.data.Values[key] = value
	s.changed = true
}

// Get retrieves a value from the session.
func (s *Session) Get(key string) (string, bool) {
	v, ok := s.data.Values[key]
	return v, ok
}

// Delete removes a key from the session.
func (s *Session) Delete(key string) {
	delete(s.data.Values, key)
	s.changed = true
}

// Flash queues a notice for the next page render.
func (s *Session) Flash(category, message string) {
	s.data.Flashes = append(s.data.Flashes, Flash{Category: category, Message: message})
	s.changed = true
}

// Flashes returns and clears all queued notices.
func (s *Session) Flashes() []Flash {
	out := s.data.Flashes
	if len(out) > 0 {
		s.data.Flashes = nil
		s.changed = true
	}
	return out
}

// Invalidate empties the session.
func (s *Session) Invalidate() {
	s.data = payload{}
	s.changed = true
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Save persists the session and writes the cookie. It is a no-op when
// nothing changed since the last load.
func (s *Session) Save(ctx context.Context, w http.ResponseWriter) error {
	if !s.changed {
		return nil
	}

	if err := s.store.Set(ctx, storeKey(s.id), s.data, s.opts.TTL); err != nil {
		metrics.SessionStoreErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("session: save: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    s.id,
		Path:     s.opts.Path,
		MaxAge:   int(s.opts.TTL.Seconds()),
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})

	s.changed = false
	return nil
}

// ------------------- Manager -------------------

// Manager loads sessions from a store and injects them into requests.
type Manager struct {
	store cache.Store
	opts  Options
}

func NewManager(store cache.Store, opts Options) *Manager {
	return &Manager{store: store, opts: opts}
}

// Middleware loads (or creates) the session for every request and injects it
// into the request context. Handlers call session.FromCtx(r) to access it.
// A failing store degrades to an empty session.
func (m *Manager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := m.load(r)
			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *Manager) load(r *http.Request) *Session {
	sess := &Session{store: m.store, opts: m.opts}

	if cookie, err := r.Cookie(m.opts.CookieName); err == nil && cookie.Value != "" {
		hit, err := m.store.Get(r.Context(), storeKey(cookie.Value), &sess.data)
		if err != nil {
			metrics.SessionStoreErrors.WithLabelValues("load").Inc()
			logger.WithCtx(r.Context()).Warn("session: load failed", "error", err)
		}
		if hit {
			sess.id = cookie.Value
			return sess
		}
		sess.data = payload{}
	}

	id, err := newID()
	if err != nil {
		logger.WithCtx(r.Context()).Error("session: generate id", "error", err)
	}
	sess.id = id
	return sess
}

// FromCtx retrieves the session from the request context.
// Returns a detached memory-backed session if none is present.
func FromCtx(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	id, _ := newID()
	return &Session{id: id, store: cache.NewMemory(), opts: DefaultOptions()}
}
