package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/Apurer/go-gin-storefront/internal/domains/admin/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/admin/ports"
	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	navdomain "github.com/Apurer/go-gin-storefront/internal/domains/navigation/domain"
	sessiondomain "github.com/Apurer/go-gin-storefront/internal/domains/session/domain"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

const (
	MessageLoadFailed   = "Error fetching product details"
	MessageDeleteFailed = "Failed to delete product"
)

// PendingDelete is the product awaiting delete confirmation.
type PendingDelete struct {
	ID   string
	Name string
}

// Flows drives product create, update and delete for one admin workspace.
type Flows struct {
	products  ports.Products
	refresher ports.Refresher
	logger    *slog.Logger

	mu      sync.Mutex
	pending *PendingDelete
}

type Option func(*Flows)

func WithLogger(logger *slog.Logger) Option {
	return func(f *Flows) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFlows wires the flows. refresher reloads the catalog after every
// successful create, modify or delete.
func NewFlows(products ports.Products, refresher ports.Refresher, opts ...Option) *Flows {
	f := &Flows{
		products:  products,
		refresher: refresher,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// CreateProduct validates and coerces form before posting it.
func (f *Flows) CreateProduct(ctx context.Context, form domain.Form) (navdomain.Transition, error) {
	input, err := coerce(form)
	if err != nil {
		return navdomain.Transition{}, err
	}
	created, err := f.products.CreateProduct(ctx, input)
	if err != nil {
		f.logger.LogAttrs(ctx, slog.LevelWarn, "create product failed", slog.String("error", err.Error()))
		return navdomain.Transition{}, mutationError(err, creating)
	}
	f.logger.LogAttrs(ctx, slog.LevelInfo, "product created", slog.String("product_id", created.ID))
	f.refresh(ctx, "create")
	return navdomain.To(sessiondomain.RouteProducts, navdomain.Success(fmt.Sprintf("Product %s created successfully", input.Name))), nil
}

// UpdateProduct validates and coerces form before putting it to id.
func (f *Flows) UpdateProduct(ctx context.Context, id string, form domain.Form) (navdomain.Transition, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return navdomain.Transition{}, apierrors.Validation("Product id is required")
	}
	input, err := coerce(form)
	if err != nil {
		return navdomain.Transition{}, err
	}
	if _, err := f.products.UpdateProduct(ctx, id, input); err != nil {
		f.logger.LogAttrs(ctx, slog.LevelWarn, "modify product failed", slog.String("product_id", id), slog.String("error", err.Error()))
		return navdomain.Transition{}, mutationError(err, modifying)
	}
	f.refresh(ctx, "modify")
	return navdomain.To(sessiondomain.RouteProducts, navdomain.Success(fmt.Sprintf("Product %s modified successfully", input.Name))), nil
}

// LoadForEdit prefills the edit form.
func (f *Flows) LoadForEdit(ctx context.Context, id string) (domain.Form, error) {
	product, err := f.products.GetProduct(ctx, id)
	if err != nil {
		return domain.Form{}, apierrors.Wrap(err, MessageLoadFailed)
	}
	return domain.FormFor(product), nil
}

// RequestDelete opens the confirmation for id, replacing any earlier request.
func (f *Flows) RequestDelete(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = &PendingDelete{ID: id, Name: name}
}

// CancelDelete closes the confirmation without any network call.
func (f *Flows) CancelDelete() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = nil
}

// Pending reports the delete awaiting confirmation.
func (f *Flows) Pending() (PendingDelete, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending == nil {
		return PendingDelete{}, false
	}
	return *f.pending, true
}

// ConfirmDelete deletes the pending product, refreshes the catalog once on
// success and returns the notification to show. The confirmation closes
// whatever the outcome.
func (f *Flows) ConfirmDelete(ctx context.Context) (navdomain.Notification, error) {
	f.mu.Lock()
	pending := f.pending
	f.pending = nil
	f.mu.Unlock()
	if pending == nil {
		return navdomain.Notification{}, apierrors.WrapKind(apierrors.KindValidation, ErrNoPendingDelete, "No product selected for deletion")
	}

	if err := f.products.DeleteProduct(ctx, pending.ID); err != nil {
		f.logger.LogAttrs(ctx, slog.LevelWarn, "delete product failed", slog.String("product_id", pending.ID), slog.String("error", err.Error()))
		return navdomain.Failure(MessageDeleteFailed), apierrors.Wrap(err, MessageDeleteFailed)
	}
	f.refresh(ctx, "delete")
	return navdomain.Success(fmt.Sprintf("Product %s deleted successfully", pending.Name)), nil
}

// refresh reloads the catalog after a successful mutation. The catalog
// records its own error state.
func (f *Flows) refresh(ctx context.Context, after string) {
	if f.refresher == nil {
		return
	}
	if err := f.refresher.Load(ctx); err != nil {
		f.logger.LogAttrs(ctx, slog.LevelWarn, "catalog refresh failed", slog.String("after", after), slog.String("error", err.Error()))
	}
}

func coerce(form domain.Form) (input catalogdomain.ProductInput, err error) {
	if err := form.Validate(); err != nil {
		return input, formError(err)
	}
	input, err = form.Input()
	if err != nil {
		return input, formError(err)
	}
	return input, nil
}
