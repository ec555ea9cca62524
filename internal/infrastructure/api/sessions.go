package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/k-shtanenko/weather-dashboard/internal/application"
	"github.com/k-shtanenko/weather-dashboard/internal/pkg/logger"
)

const sessionKey = "session"

// Session holds the per-client view-models.
type Session struct {
	ID      string
	Weather *application.WeatherViewModel
	Form    *application.PersonalInfoForm

	lastSeen time.Time
}

type SessionFactory func() (*application.WeatherViewModel, *application.PersonalInfoForm)

// SessionStore keys sessions by a uuid cookie. Sessions idle for longer than
// ttl are dropped on the next access to the store.
type SessionStore struct {
	cookieName string
	ttl        time.Duration
	factory    SessionFactory
	logger     logger.Logger
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionStore(cookieName string, ttl time.Duration, factory SessionFactory, log logger.Logger) *SessionStore {
	if cookieName == "" {
		cookieName = "session_id"
	}
	return &SessionStore{
		cookieName: cookieName,
		ttl:        ttl,
		factory:    factory,
		logger:     logger.Component(log, "session_store"),
		now:        time.Now,
		sessions:   make(map[string]*Session),
	}
}

// Acquire returns the session for id, creating a fresh one when id is not a
// live session. The boolean reports whether a new session was created.
func (s *SessionStore) Acquire(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	if sess, ok := s.sessions[id]; ok {
		sess.lastSeen = now
		return sess, false
	}

	weather, form := s.factory()
	sess := &Session{
		ID:       uuid.NewString(),
		Weather:  weather,
		Form:     form,
		lastSeen: now,
	}
	s.sessions[sess.ID] = sess
	s.logger.Debugf("Session %s created", sess.ID)
	return sess, true
}

// Sweep drops idle sessions without waiting for the next request. It has the
// ports.Task signature so it can be scheduled.
func (s *SessionStore) Sweep(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.sessions)
	s.evictLocked(s.now())
	if evicted := before - len(s.sessions); evicted > 0 {
		s.logger.Infof("Evicted %d idle session(s)", evicted)
	}
	return nil
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) evictLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			sess.Weather.Reset()
			delete(s.sessions, id)
			s.logger.Debugf("Session %s expired", id)
		}
	}
}

// Middleware attaches the caller's session to the gin context. The cookie is
// re-issued on every request so its Max-Age slides with the session's idle
// window.
func (s *SessionStore) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(s.cookieName)
		sess, _ := s.Acquire(id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(s.cookieName, sess.ID, int(s.ttl.Seconds()), "/", "", false, true)
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *Session {
	value, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := value.(*Session)
	return sess
}
