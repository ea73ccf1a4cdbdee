package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	addressdomain "github.com/Apurer/go-gin-storefront/internal/domains/addresses/domain"
	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	navdomain "github.com/Apurer/go-gin-storefront/internal/domains/navigation/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	sessiondomain "github.com/Apurer/go-gin-storefront/internal/domains/session/domain"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

// Outcome reports the step reached by a transition and, when the workflow is
// done, where the shopper should be sent next.
type Outcome struct {
	Step       domain.Step
	Transition *navdomain.Transition
}

// View is a render snapshot of the workflow.
type View struct {
	ProductID  string
	Step       domain.Step
	Product    catalogdomain.Product
	Quantity   int
	AddressID  string
	Addresses  []addressdomain.Address
	Total      decimal.Decimal
	Validation string
	Error      string
	Mounted    bool
	Aborted    bool
	Order      *domain.Order
}

// Workflow drives one order placement for one product. Network calls are made
// without holding the lock; their results are applied only if the generation
// they started under is still current.
type Workflow struct {
	productID string
	products  ports.ProductLookup
	addresses ports.AddressBook
	submitter ports.Submitter
	logger    *slog.Logger

	mu              sync.Mutex
	step            domain.Step
	product         catalogdomain.Product
	mounted         bool
	aborted         bool
	unmounted       bool
	quantity        int
	initialQuantity int
	addressID       string
	addressList     []addressdomain.Address
	validationMsg   string
	errMsg          string
	order           *domain.Order
	generation      uint64
}

// Option configures a workflow.
type Option func(*Workflow)

// WithLogger sets the logger used for transition failures.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithInitialQuantity carries the quantity picked on the product details view.
// It is applied on mount only if it fits the product's stock.
func WithInitialQuantity(quantity int) Option {
	return func(w *Workflow) {
		w.initialQuantity = quantity
	}
}

func NewWorkflow(productID string, products ports.ProductLookup, addresses ports.AddressBook, submitter ports.Submitter, opts ...Option) *Workflow {
	w := &Workflow{
		productID: strings.TrimSpace(productID),
		products:  products,
		addresses: addresses,
		submitter: submitter,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		step:      domain.StepSelectingProduct,
		quantity:  1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// ProductID is the product this workflow was created for.
func (w *Workflow) ProductID() string { return w.productID }

// Mount fetches the product. A failure aborts the workflow for good.
func (w *Workflow) Mount(ctx context.Context) error {
	w.mu.Lock()
	if w.unmounted {
		w.mu.Unlock()
		return ErrStale
	}
	if w.aborted {
		w.mu.Unlock()
		return ErrAborted
	}
	w.generation++
	gen := w.generation
	w.mu.Unlock()

	product, err := w.products.GetProduct(ctx, w.productID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation || w.unmounted {
		return ErrStale
	}
	if err != nil {
		w.logger.LogAttrs(ctx, slog.LevelWarn, "order workflow product fetch failed",
			slog.String("product_id", w.productID), slog.String("error", err.Error()))
		w.aborted = true
		w.errMsg = domain.MessageProductFetchFailed
		return apierrors.Wrap(fmt.Errorf("%w: %w", ErrAborted, err), domain.MessageProductFetchFailed)
	}
	w.product = product
	w.mounted = true
	w.step = domain.StepSelectingProduct
	w.errMsg = ""
	w.validationMsg = ""
	if w.initialQuantity > 0 && product.Accepts(w.initialQuantity) {
		w.quantity = w.initialQuantity
	}
	w.initialQuantity = 0
	return nil
}

// usable reports why the workflow cannot take an operation, if it cannot.
// Callers hold w.mu.
func (w *Workflow) usable() error {
	switch {
	case w.aborted:
		return ErrAborted
	case w.unmounted:
		return ErrStale
	case !w.mounted:
		return fmt.Errorf("%w: workflow is not mounted", ErrInvalidTransition)
	case w.step.Terminal():
		return fmt.Errorf("%w: order already placed", ErrInvalidTransition)
	default:
		return nil
	}
}

// SetQuantity accepts 1 ≤ quantity ≤ availableItems. Anything else is
// rejected and the previous value is kept.
func (w *Workflow) SetQuantity(quantity int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.usable(); err != nil {
		return err
	}
	if w.step != domain.StepSelectingProduct {
		return fmt.Errorf("%w: quantity is fixed in step %s", ErrInvalidTransition, w.step)
	}
	if !w.product.Accepts(quantity) {
		w.validationMsg = domain.MessageQuantityOutOfRange
		return validation(domain.MessageQuantityOutOfRange, domain.ErrInvalidQuantity)
	}
	w.quantity = quantity
	w.validationMsg = ""
	return nil
}

// SelectAddress picks one of the listed addresses.
func (w *Workflow) SelectAddress(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.usable(); err != nil {
		return err
	}
	if w.step != domain.StepSelectingAddress {
		return fmt.Errorf("%w: address is chosen in step %s", ErrInvalidTransition, domain.StepSelectingAddress)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		w.validationMsg = domain.MessageSelectAddress
		return validation(domain.MessageSelectAddress, domain.ErrMissingAddress)
	}
	if !slices.ContainsFunc(w.addressList, func(a addressdomain.Address) bool { return a.ID == id }) {
		return apierrors.WrapKind(apierrors.KindNotFound, ErrUnknownAddress, domain.MessageSelectAddress)
	}
	w.addressID = id
	w.validationMsg = ""
	return nil
}

// CreateAddress saves a new address and then refreshes the list, so the new
// entry is visible once this returns. It does not select the address.
func (w *Workflow) CreateAddress(ctx context.Context, input addressdomain.Input) (addressdomain.Address, error) {
	w.mu.Lock()
	if err := w.usable(); err != nil {
		w.mu.Unlock()
		return addressdomain.Address{}, err
	}
	if w.step != domain.StepSelectingAddress {
		w.mu.Unlock()
		return addressdomain.Address{}, fmt.Errorf("%w: addresses are added in step %s", ErrInvalidTransition, domain.StepSelectingAddress)
	}
	gen := w.generation
	w.mu.Unlock()

	created, err := w.addresses.Create(ctx, input)
	if err != nil {
		w.mu.Lock()
		defer w.mu.Unlock()
		if gen != w.generation || w.unmounted {
			return addressdomain.Address{}, ErrStale
		}
		if apierrors.Is(err, apierrors.KindValidation) {
			w.validationMsg = apierrors.MessageOf(err, addressdomain.MessageRequiredFields)
		} else {
			w.errMsg = apierrors.MessageOf(err, addressdomain.MessageSaveFailed)
		}
		return addressdomain.Address{}, err
	}

	list, listErr := w.addresses.List(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation || w.unmounted {
		return created, ErrStale
	}
	w.validationMsg = ""
	if listErr != nil {
		if !slices.ContainsFunc(w.addressList, func(a addressdomain.Address) bool { return a.ID == created.ID }) {
			w.addressList = append(w.addressList, created)
		}
		w.errMsg = apierrors.MessageOf(listErr, domain.MessageAddressFetchFailed)
		return created, listErr
	}
	w.addressList = list
	w.errMsg = ""
	return created, nil
}

// Next advances the workflow. From Confirming (or Failed) it submits the order.
func (w *Workflow) Next(ctx context.Context) (Outcome, error) {
	w.mu.Lock()
	if err := w.usable(); err != nil {
		w.mu.Unlock()
		return Outcome{}, err
	}
	switch w.step {
	case domain.StepSelectingProduct:
		if !w.product.Accepts(w.quantity) {
			w.validationMsg = domain.MessageQuantityOutOfRange
			step := w.step
			w.mu.Unlock()
			return Outcome{Step: step}, validation(domain.MessageQuantityOutOfRange, domain.ErrInvalidQuantity)
		}
		gen := w.enter(domain.StepSelectingAddress)
		w.mu.Unlock()
		return w.refreshAddresses(ctx, gen)

	case domain.StepSelectingAddress:
		if w.addressID == "" {
			w.validationMsg = domain.MessageSelectAddress
			step := w.step
			w.mu.Unlock()
			return Outcome{Step: step}, validation(domain.MessageSelectAddress, domain.ErrMissingAddress)
		}
		w.enter(domain.StepConfirming)
		w.mu.Unlock()
		return Outcome{Step: domain.StepConfirming}, nil

	case domain.StepConfirming, domain.StepFailed:
		req := domain.OrderRequest{ProductID: w.product.ID, AddressID: w.addressID, Quantity: w.quantity}
		if req.ProductID == "" {
			req.ProductID = w.productID
		}
		if err := req.Validate(); err != nil || !w.product.Accepts(req.Quantity) {
			step := w.step
			w.mu.Unlock()
			return Outcome{Step: step}, fmt.Errorf("%w: order request is incomplete", ErrInvalidTransition)
		}
		gen := w.enter(domain.StepSubmitting)
		w.mu.Unlock()
		return w.submit(ctx, gen, req)

	default:
		step := w.step
		w.mu.Unlock()
		return Outcome{Step: step}, fmt.Errorf("%w: next from %s", ErrInvalidTransition, step)
	}
}

// Back returns to the previous step, keeping quantity and address selection.
func (w *Workflow) Back(ctx context.Context) (Outcome, error) {
	w.mu.Lock()
	if err := w.usable(); err != nil {
		w.mu.Unlock()
		return Outcome{}, err
	}
	switch w.step {
	case domain.StepSelectingAddress:
		w.enter(domain.StepSelectingProduct)
		w.mu.Unlock()
		return Outcome{Step: domain.StepSelectingProduct}, nil
	case domain.StepConfirming, domain.StepFailed:
		gen := w.enter(domain.StepSelectingAddress)
		w.mu.Unlock()
		return w.refreshAddresses(ctx, gen)
	default:
		step := w.step
		w.mu.Unlock()
		return Outcome{Step: step}, fmt.Errorf("%w: back from %s", ErrInvalidTransition, step)
	}
}

// Unmount detaches the workflow; in-flight results are discarded.
func (w *Workflow) Unmount() {
	w.mu.Lock()
	w.unmounted = true
	w.generation++
	w.mu.Unlock()
}

func (w *Workflow) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	v := View{
		ProductID:  w.productID,
		Step:       w.step,
		Product:    w.product,
		Quantity:   w.quantity,
		AddressID:  w.addressID,
		Addresses:  slices.Clone(w.addressList),
		Validation: w.validationMsg,
		Error:      w.errMsg,
		Mounted:    w.mounted,
		Aborted:    w.aborted,
	}
	if w.mounted {
		v.Total = w.product.Total(w.quantity)
	}
	if w.order != nil {
		order := *w.order
		v.Order = &order
	}
	return v
}

// enter moves to step and starts a new generation. Callers hold w.mu.
func (w *Workflow) enter(step domain.Step) uint64 {
	w.step = step
	w.validationMsg = ""
	w.errMsg = ""
	w.generation++
	return w.generation
}

func (w *Workflow) refreshAddresses(ctx context.Context, gen uint64) (Outcome, error) {
	list, err := w.addresses.List(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation || w.unmounted {
		return Outcome{Step: w.step}, ErrStale
	}
	if err != nil {
		w.logger.LogAttrs(ctx, slog.LevelWarn, "order workflow address fetch failed", slog.String("error", err.Error()))
		w.errMsg = apierrors.MessageOf(err, domain.MessageAddressFetchFailed)
		return Outcome{Step: w.step}, err
	}
	w.addressList = list
	return Outcome{Step: w.step}, nil
}

func (w *Workflow) submit(ctx context.Context, gen uint64, req domain.OrderRequest) (Outcome, error) {
	if s, ok := sessiondomain.FromContext(ctx); ok {
		w.logger.LogAttrs(ctx, slog.LevelInfo, "order submission",
			slog.String("username", s.Username), slog.String("product_id", req.ProductID), slog.Int("quantity", req.Quantity))
	}
	order, err := w.submitter.Submit(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation || w.unmounted {
		return Outcome{Step: w.step}, ErrStale
	}
	if err != nil {
		w.logger.LogAttrs(ctx, slog.LevelWarn, "order submission failed",
			slog.String("product_id", req.ProductID), slog.String("error", err.Error()))
		wrapped := submissionError(err)
		w.step = domain.StepFailed
		w.errMsg = apierrors.MessageOf(wrapped, domain.MessageOrderFailed)
		return Outcome{Step: w.step}, wrapped
	}
	w.step = domain.StepCompleted
	w.order = &order
	transition := navdomain.To(sessiondomain.RouteProducts, navdomain.Success(domain.MessageOrderPlaced))
	return Outcome{Step: w.step, Transition: &transition}, nil
}
