package application

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/Apurer/go-gin-storefront/internal/domains/addresses/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/addresses/ports"
)

// Manager keeps the shopper's address list for one workspace.
type Manager struct {
	gateway ports.Gateway
	logger  *slog.Logger

	mu        sync.RWMutex
	addresses []domain.Address
	issued    uint64
	applied   uint64
}

// Option configures the manager.
type Option func(*Manager)

// WithLogger sets the logger used for collaborator failures.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func NewManager(gateway ports.Gateway, opts ...Option) *Manager {
	m := &Manager{
		gateway: gateway,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// List fetches the saved addresses and replaces the in-memory list. An empty
// result is a valid state. On failure the previous list is kept.
func (m *Manager) List(ctx context.Context) ([]domain.Address, error) {
	m.mu.Lock()
	m.issued++
	seq := m.issued
	m.mu.Unlock()

	fetched, err := m.gateway.ListAddresses(ctx)
	if err != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "address list failed", slog.String("error", err.Error()))
		return nil, mapError(err, domain.MessageFetchFailed)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// A list that started after this one already landed.
	if seq > m.applied {
		m.addresses = slices.Clone(fetched)
		m.applied = seq
	}
	return slices.Clone(m.addresses), nil
}

// Create validates locally, saves through the gateway and appends the result.
// The new address is not selected.
func (m *Manager) Create(ctx context.Context, input domain.Input) (domain.Address, error) {
	input = input.Normalize()
	if err := input.Validate(); err != nil {
		return domain.Address{}, validationError(err)
	}

	created, err := m.gateway.CreateAddress(ctx, input)
	if err != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "address create failed", slog.String("error", err.Error()))
		return domain.Address{}, mapError(err, domain.MessageSaveFailed)
	}

	m.mu.Lock()
	m.addresses = append(m.addresses, created)
	m.mu.Unlock()
	return created, nil
}

// Addresses returns a copy of the current list.
func (m *Manager) Addresses() []domain.Address {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.addresses)
}

// Find looks an address up by id in the current list.
func (m *Manager) Find(id string) (domain.Address, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx := slices.IndexFunc(m.addresses, func(a domain.Address) bool { return a.ID == id })
	if idx < 0 {
		return domain.Address{}, false
	}
	return m.addresses[idx], true
}
