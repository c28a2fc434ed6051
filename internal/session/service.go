package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/equine-kiosk/server/internal/cart"
	"github.com/equine-kiosk/server/internal/catalog"
	logx "github.com/equine-kiosk/server/pkg/logger"
	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// CatalogSource hands out the loaded catalog per language.
type CatalogSource interface {
	Snapshot(language string) (*catalog.Snapshot, error)
}

type Config struct {
	OrderPrefix     string        `split_words:"true" default:"KSK"`
	DefaultLanguage string        `split_words:"true" default:"fr"`
	IdleTimeout     time.Duration `split_words:"true" default:"30m"`
}

// Service owns the open kiosk sessions and the collaborators they use.
type Service struct {
	catalogs        CatalogSource
	saved           SavedCartRepository
	submitter       OrderSubmitter
	referencePrefix string
	defaultLanguage string
	idleTimeout     time.Duration
	now             func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewService(cfg Config, catalogs CatalogSource, saved SavedCartRepository, submitter OrderSubmitter) *Service {
	return &Service{
		catalogs:        catalogs,
		saved:           saved,
		submitter:       submitter,
		referencePrefix: cfg.OrderPrefix,
		defaultLanguage: cfg.DefaultLanguage,
		idleTimeout:     cfg.IdleTimeout,
		now:             time.Now,
		sessions:        make(map[string]*Session),
	}
}

// Open starts a session for language. It fails with
// catalog.ErrCatalogUnavailable until that catalog has been loaded.
func (s *Service) Open(language string) (*Session, error) {
	if language == "" {
		language = s.defaultLanguage
	}
	snap, err := s.catalogs.Snapshot(language)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	sess := &Session{
		ID:        id,
		Language:  language,
		CreatedAt: s.now(),
		svc:       s,
		log:       logx.WithSession(id),
		catalog:   snap,
		cart:      cart.New(),
	}
	sess.touch(sess.CreatedAt)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	sess.log.Info().Str("language", language).Msg("session opened")
	return sess, nil
}

func (s *Service) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

// Sweep closes sessions not looked up for longer than the idle timeout and
// returns how many were closed. A zero timeout keeps sessions forever.
func (s *Service) Sweep() int {
	if s.idleTimeout <= 0 {
		return 0
	}
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	closed := 0
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.idleTimeout {
			delete(s.sessions, id)
			closed++
			sess.log.Info().Msg("idle session closed")
		}
	}
	return closed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logx.Debug().Int("closed", n).Int("open", s.Len()).Msg("idle sessions swept")
			}
		}
	}
}

// Close forgets a session. Closing an unknown session is a no-op.
func (s *Service) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; ok {
		delete(s.sessions, id)
		logx.Info().Str("session", id).Msg("session closed")
	}
}

// Len returns the number of open sessions.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ReloadCatalogs points every open session of language at the latest
// snapshot, e.g. after a catalog refresh.
func (s *Service) ReloadCatalogs(language string) int {
	s.mu.RLock()
	var targets []*Session
	for _, sess := range s.sessions {
		if sess.Language == language {
			targets = append(targets, sess)
		}
	}
	s.mu.RUnlock()

	reloaded := 0
	for _, sess := range targets {
		if err := sess.ReloadCatalog(); err == nil {
			reloaded++
		}
	}
	return reloaded
}
