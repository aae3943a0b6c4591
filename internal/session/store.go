package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-adventure/internal/game"
	"github.com/pixil98/go-adventure/internal/metrics"
	"github.com/pixil98/go-log"
)

// Session ties a player to whoever is driving them. The web surface has no
// session tokens, so it uses the store's default session; each interactive
// connection gets a session of its own.
type Session struct {
	id string

	mu           sync.Mutex
	player       *game.PlayerState
	lastActivity time.Time
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Player() *game.PlayerState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.player
}

func (s *Session) SetPlayer(p *game.PlayerState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.player = p
	s.lastActivity = time.Now()
}

// Touch resets the session's idle timer.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActivity = time.Now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastActivity
}

// DefaultId is the id of the implicit session behind the web surface.
const DefaultId = "default"

type Store struct {
	idleTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore(idleTimeout time.Duration) *Store {
	s := &Store{
		idleTimeout: idleTimeout,
		sessions:    map[string]*Session{},
	}
	s.sessions[DefaultId] = &Session{id: DefaultId, lastActivity: time.Now()}
	return s
}

// Default returns the implicit session. It always exists and is never reaped.
func (s *Store) Default() *Session {
	return s.Get(DefaultId)
}

func (s *Store) Create() *Session {
	sess := &Session{
		id:           uuid.New().String(),
		lastActivity: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.id] = sess
	return sess
}

func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions[id]
}

func (s *Store) Remove(id string) {
	if id == DefaultId {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// Tick reaps sessions idle past the configured timeout. Satisfies
// driver.Manager.
func (s *Store) Tick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idleTimeout > 0 {
		cutoff := time.Now().Add(-s.idleTimeout)
		for id, sess := range s.sessions {
			if id == DefaultId {
				continue
			}
			if sess.idleSince().Before(cutoff) {
				delete(s.sessions, id)
				log.GetLogger(ctx).Infof("reaped idle session %s", id)
			}
		}
	}

	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return nil
}
