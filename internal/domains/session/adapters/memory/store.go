package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/Apurer/go-gin-storefront/internal/domains/session/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/session/ports"
)

var _ ports.Store = (*Store)(nil)

// Store is an in-memory session store for development and tests.
type Store struct {
	sessions sync.Map
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Load(_ context.Context, id string) (domain.Session, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Session{}, ports.ErrInvalidSessionID
	}
	if v, ok := s.sessions.Load(id); ok {
		return v.(domain.Session), nil
	}
	return domain.Session{}, nil
}

func (s *Store) Save(_ context.Context, id string, session domain.Session) error {
	if strings.TrimSpace(id) == "" {
		return ports.ErrInvalidSessionID
	}
	s.sessions.Store(id, session)
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.sessions.Delete(id)
	return nil
}
