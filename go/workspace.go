package storefrontserver

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	addressapp "github.com/Apurer/go-gin-storefront/internal/domains/addresses/application"
	addressports "github.com/Apurer/go-gin-storefront/internal/domains/addresses/ports"
	adminapp "github.com/Apurer/go-gin-storefront/internal/domains/admin/application"
	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	orderapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

// CommerceAPI is the Commerce API surface a workspace drives.
type CommerceAPI interface {
	catalogports.ProductSource
	catalogports.ProductWriter
	addressports.Gateway
}

// Workspace holds the stateful components of one browser session.
type Workspace struct {
	Catalog   *catalogapp.Controller
	Addresses *addressapp.Manager
	Admin     *adminapp.Flows

	commerce  CommerceAPI
	submitter orderports.Submitter
	logger    *slog.Logger

	mu     sync.Mutex
	orders map[string]*orderapp.Workflow

	lastUsed time.Time // guarded by Workspaces.mu
}

// StartOrder mounts a fresh workflow for productID, unmounting any earlier one
// so its in-flight results are discarded.
func (w *Workspace) StartOrder(productID string, quantity int) *orderapp.Workflow {
	wf := orderapp.NewWorkflow(productID, w.commerce, w.Addresses, w.submitter,
		orderapp.WithLogger(w.logger),
		orderapp.WithInitialQuantity(quantity),
	)
	w.mu.Lock()
	previous := w.orders[productID]
	w.orders[productID] = wf
	w.mu.Unlock()
	if previous != nil {
		previous.Unmount()
	}
	return wf
}

// Order returns the workflow for productID, if one is mounted.
func (w *Workspace) Order(productID string) (*orderapp.Workflow, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	wf, ok := w.orders[productID]
	return wf, ok
}

// EndOrder unmounts and forgets the workflow for productID.
func (w *Workspace) EndOrder(productID string) {
	w.mu.Lock()
	wf := w.orders[productID]
	delete(w.orders, productID)
	w.mu.Unlock()
	if wf != nil {
		wf.Unmount()
	}
}

func (w *Workspace) close() {
	w.mu.Lock()
	orders := w.orders
	w.orders = map[string]*orderapp.Workflow{}
	w.mu.Unlock()
	for _, wf := range orders {
		wf.Unmount()
	}
}

// Workspaces keys workspaces by session id, creating them on first use.
// Workspaces left unused for longer than the idle timeout are evicted.
type Workspaces struct {
	commerce  CommerceAPI
	submitter orderports.Submitter
	logger    *slog.Logger
	idle      time.Duration
	now       func() time.Time

	mu    sync.Mutex
	items map[string]*Workspace
}

type WorkspacesOption func(*Workspaces)

// WithIdleTimeout evicts workspaces unused for longer than d. Zero keeps them
// until the session logs out or expires.
func WithIdleTimeout(d time.Duration) WorkspacesOption {
	return func(ws *Workspaces) {
		ws.idle = d
	}
}

func NewWorkspaces(commerce CommerceAPI, submitter orderports.Submitter, logger *slog.Logger, opts ...WorkspacesOption) *Workspaces {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ws := &Workspaces{
		commerce:  commerce,
		submitter: submitter,
		logger:    logger,
		now:       time.Now,
		items:     map[string]*Workspace{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ws)
		}
	}
	return ws
}

// Get returns the workspace of sessionID and marks it used.
func (ws *Workspaces) Get(sessionID string) *Workspace {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if w, ok := ws.items[sessionID]; ok {
		w.lastUsed = ws.now()
		return w
	}
	logger := ws.logger.With(slog.String("session_id", sessionID))
	catalog := catalogapp.NewController(ws.commerce, catalogapp.WithLogger(logger))
	w := &Workspace{
		Catalog:   catalog,
		Addresses: addressapp.NewManager(ws.commerce, addressapp.WithLogger(logger)),
		Admin:     adminapp.NewFlows(ws.commerce, catalog, adminapp.WithLogger(logger)),
		commerce:  ws.commerce,
		submitter: ws.submitter,
		logger:    logger,
		orders:    map[string]*orderapp.Workflow{},
		lastUsed:  ws.now(),
	}
	ws.items[sessionID] = w
	return w
}

// Drop discards the workspace of sessionID, unmounting its workflows.
func (ws *Workspaces) Drop(sessionID string) {
	ws.mu.Lock()
	w, ok := ws.items[sessionID]
	delete(ws.items, sessionID)
	ws.mu.Unlock()
	if ok {
		w.close()
	}
}

// EvictIdle drops every workspace unused for longer than the idle timeout and
// reports how many went.
func (ws *Workspaces) EvictIdle() int {
	if ws.idle <= 0 {
		return 0
	}
	cutoff := ws.now().Add(-ws.idle)
	var evicted []*Workspace
	ws.mu.Lock()
	for id, w := range ws.items {
		if w.lastUsed.Before(cutoff) {
			evicted = append(evicted, w)
			delete(ws.items, id)
		}
	}
	ws.mu.Unlock()
	for _, w := range evicted {
		w.close()
	}
	return len(evicted)
}

// Sweep runs EvictIdle every interval until ctx is cancelled.
func (ws *Workspaces) Sweep(ctx context.Context, interval time.Duration) {
	if ws.idle <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := ws.EvictIdle(); n > 0 {
				ws.logger.LogAttrs(ctx, slog.LevelDebug, "evicted idle workspaces", slog.Int("count", n))
			}
		}
	}
}
