package web

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rodrigoasouza93/cep-form/internal/form"
	"github.com/rodrigoasouza93/cep-form/internal/storage"
)

const (
	sessionCookie     = "form_session"
	DefaultSessionTTL = 30 * time.Minute
)

// session is one browser: its local store outlives page loads, the form
// Context is replaced on every load.
type session struct {
	mu       sync.Mutex
	store    storage.Store
	page     *form.Context
	lastSeen time.Time
}

// sessions keeps the live sessions in memory. Sessions idle for longer than
// ttl are dropped; a file backed store is reopened when the cookie returns.
type sessions struct {
	mu        sync.Mutex
	open      storage.Opener
	byID      map[string]*session
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func newSessions(open storage.Opener, ttl time.Duration) *sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &sessions{
		open: open,
		byID: make(map[string]*session),
		ttl:  ttl,
		now:  time.Now,
	}
}

// get returns the caller's session, creating it and setting the cookie when
// the request carries none. A well-formed unknown id is adopted so file
// stores survive restarts and evictions.
func (ss *sessions) get(w http.ResponseWriter, r *http.Request) (*session, error) {
	id := ""
	if c, err := r.Cookie(sessionCookie); err == nil {
		if parsed, err := uuid.Parse(c.Value); err == nil {
			id = parsed.String()
		}
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()

	now := ss.now()
	ss.sweep(now)

	if id != "" {
		if s, ok := ss.byID[id]; ok {
			s.lastSeen = now
			return s, nil
		}
	} else {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	store, err := ss.open(id)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	s := &session{store: store, lastSeen: now}
	ss.byID[id] = s
	return s, nil
}

// sweep drops idle sessions, at most once per half ttl. Callers hold ss.mu.
func (ss *sessions) sweep(now time.Time) {
	if now.Sub(ss.lastSweep) < ss.ttl/2 {
		return
	}
	ss.lastSweep = now
	for id, s := range ss.byID {
		if now.Sub(s.lastSeen) > ss.ttl {
			delete(ss.byID, id)
		}
	}
}

func (ss *sessions) len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.byID)
}
