package order

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/example/storefront-client/internal/apiclient"
	"go.uber.org/zap"
)

var (
	ErrNoUser           = errors.New("user id is required")
	ErrEmptyOrder       = errors.New("order must have at least one item")
	ErrMissingAddress   = errors.New("shipping address is required")
	ErrMissingPhone     = errors.New("phone number is required")
	ErrMissingPayment   = errors.New("payment method is required")
	ErrInvalidLineItem  = errors.New("line items need a product and a quantity of at least 1")
	ErrMissingOrderRef  = errors.New("order reference is required")
	ErrMissingCancelWhy = errors.New("cancellation reason is required")
	ErrInvalidPayStatus = errors.New("invalid payment status")
)

const (
	msgCreateFailed  = "unable to create order"
	msgListFailed    = "unable to load orders"
	msgGetFailed     = "unable to load order"
	msgLookupFailed  = "order not found"
	msgPaymentFailed = "payment status update failed"
	msgShipFailed    = "shipping update failed"
	msgDeliverFailed = "delivery update failed"
	msgCancelFailed  = "cancellation failed"
	msgGeneric       = "something went wrong"
)

// phase is the explicit request lifecycle. Every operation funnels its state
// changes through one shared reducer instead of per-operation flag twiddling.
type phase int

const (
	phasePending phase = iota
	phaseFulfilled
	phaseRejected
)

// Store caches the current order and the paginated order history. Both are
// replaced wholesale from backend responses; the client never fabricates a
// status change locally.
type Store struct {
	api *apiclient.Client
	log *zap.Logger

	mu            sync.Mutex
	currentOrder  *Order
	orders        []Order
	loading       bool
	errMsg        string
	totalPages    int
	currentPage   int
	totalElements int
}

func NewStore(api *apiclient.Client, logger *zap.Logger) *Store {
	return &Store{api: api, log: logger}
}

// apply is the shared lifecycle reducer: pending raises the loading flag and
// clears the error, rejected stores the message, fulfilled just lowers the
// flag.
func (s *Store) apply(p phase, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch p {
	case phasePending:
		s.loading = true
		s.errMsg = ""
	case phaseFulfilled:
		s.loading = false
	case phaseRejected:
		s.loading = false
		if msg == "" {
			msg = msgGeneric
		}
		s.errMsg = msg
	}
}

func (r CreateOrderRequest) validate() error {
	if len(r.Items) == 0 {
		return ErrEmptyOrder
	}
	for _, item := range r.Items {
		if item.ProductID == 0 || item.Quantity < 1 {
			return ErrInvalidLineItem
		}
	}
	if r.ShippingAddress == "" {
		return ErrMissingAddress
	}
	if r.PhoneNumber == "" {
		return ErrMissingPhone
	}
	if r.PaymentMethod == "" {
		return ErrMissingPayment
	}
	return nil
}

// Create submits a checkout. Validation failures short-circuit before any
// network call and leave the store untouched. Clearing the cart afterwards is
// the caller's responsibility; the two operations are not transactional.
func (s *Store) Create(ctx context.Context, userID int64, req CreateOrderRequest) (*Order, error) {
	if userID == 0 {
		return nil, ErrNoUser
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	s.apply(phasePending, "")
	var created Order
	if err := s.api.Post(ctx, "/v1/orders", req, &created); err != nil {
		s.apply(phaseRejected, errMessage(err, msgCreateFailed))
		return nil, err
	}

	s.mu.Lock()
	s.currentOrder = &created
	s.mu.Unlock()
	s.apply(phaseFulfilled, "")
	s.log.Info("order created",
		zap.Int64("order_id", created.ID),
		zap.String("order_number", created.OrderNumber))
	return &created, nil
}

// ListForUser retrieves one page of order history, 0-based. The list and the
// pagination cursors are replaced wholesale; there is no incremental merge.
func (s *Store) ListForUser(ctx context.Context, userID int64, page, size int) error {
	if userID == 0 {
		return ErrNoUser
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	query.Set("sortBy", "createdAt")
	query.Set("sortDirection", "desc")

	s.apply(phasePending, "")
	var content []Order
	pagination, err := s.api.GetPaged(ctx, "/v1/orders", query, &content)
	if err != nil {
		s.apply(phaseRejected, errMessage(err, msgListFailed))
		return err
	}

	s.mu.Lock()
	s.orders = content
	if pagination != nil {
		s.totalPages = pagination.TotalPages
		s.currentPage = pagination.CurrentPage
		s.totalElements = pagination.TotalElements
	}
	s.mu.Unlock()
	s.apply(phaseFulfilled, "")
	return nil
}

// Get retrieves a single order into the current-order slot.
func (s *Store) Get(ctx context.Context, userID, orderID int64) (*Order, error) {
	if userID == 0 {
		return nil, ErrNoUser
	}
	if orderID == 0 {
		return nil, ErrMissingOrderRef
	}
	return s.fetchCurrent(ctx, fmt.Sprintf("/v1/orders/%d", orderID), nil, msgGetFailed)
}

// GetByNumber looks an order up by its human-readable number.
func (s *Store) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	if orderNumber == "" {
		return nil, ErrMissingOrderRef
	}
	return s.fetchCurrent(ctx, "/v1/orders/number/"+url.PathEscape(orderNumber), nil, msgLookupFailed)
}

// UpdatePaymentStatus relays a payment status change and applies the
// wholesale-replace policy to the returned order.
func (s *Store) UpdatePaymentStatus(ctx context.Context, orderID int64, status PaymentStatus) (*Order, error) {
	if orderID == 0 {
		return nil, ErrMissingOrderRef
	}
	switch status {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
	default:
		return nil, ErrInvalidPayStatus
	}

	query := url.Values{}
	query.Set("paymentStatus", string(status))

	s.apply(phasePending, "")
	var updated Order
	if err := s.api.Patch(ctx, fmt.Sprintf("/v1/orders/%d/payment-status", orderID), query, &updated); err != nil {
		s.apply(phaseRejected, errMessage(err, msgPaymentFailed))
		return nil, err
	}

	s.mu.Lock()
	s.currentOrder = &updated
	s.mu.Unlock()
	s.apply(phaseFulfilled, "")
	return &updated, nil
}

// Ship relays a shipping dispatch. The tracking number is optional; the
// backend generates one when absent.
func (s *Store) Ship(ctx context.Context, orderID int64, trackingNumber string) (*Order, error) {
	if orderID == 0 {
		return nil, ErrMissingOrderRef
	}

	query := url.Values{}
	if trackingNumber != "" {
		query.Set("trackingNumber", trackingNumber)
	}

	s.apply(phasePending, "")
	var updated Order
	if err := s.api.Patch(ctx, fmt.Sprintf("/v1/orders/%d/ship", orderID), query, &updated); err != nil {
		s.apply(phaseRejected, errMessage(err, msgShipFailed))
		return nil, err
	}

	s.mu.Lock()
	s.currentOrder = &updated
	s.mu.Unlock()
	s.apply(phaseFulfilled, "")
	return &updated, nil
}

// Deliver marks a shipped order as delivered.
func (s *Store) Deliver(ctx context.Context, orderID int64) (*Order, error) {
	if orderID == 0 {
		return nil, ErrMissingOrderRef
	}

	s.apply(phasePending, "")
	var updated Order
	if err := s.api.Patch(ctx, fmt.Sprintf("/v1/orders/%d/deliver", orderID), nil, &updated); err != nil {
		s.apply(phaseRejected, errMessage(err, msgDeliverFailed))
		return nil, err
	}

	s.mu.Lock()
	s.currentOrder = &updated
	s.mu.Unlock()
	s.apply(phaseFulfilled, "")
	return &updated, nil
}

// Cancel requests cancellation with a reason.
func (s *Store) Cancel(ctx context.Context, orderID int64, reason string) (*Order, error) {
	if orderID == 0 {
		return nil, ErrMissingOrderRef
	}
	if reason == "" {
		return nil, ErrMissingCancelWhy
	}

	query := url.Values{}
	query.Set("reason", reason)

	s.apply(phasePending, "")
	var updated Order
	if err := s.api.Delete(ctx, fmt.Sprintf("/v1/orders/%d/cancel", orderID), query, &updated); err != nil {
		s.apply(phaseRejected, errMessage(err, msgCancelFailed))
		return nil, err
	}

	s.mu.Lock()
	s.currentOrder = &updated
	s.mu.Unlock()
	s.apply(phaseFulfilled, "")
	return &updated, nil
}

func (s *Store) fetchCurrent(ctx context.Context, path string, query url.Values, fallback string) (*Order, error) {
	s.apply(phasePending, "")
	var fetched Order
	if err := s.api.Get(ctx, path, query, &fetched); err != nil {
		s.apply(phaseRejected, errMessage(err, fallback))
		return nil, err
	}

	s.mu.Lock()
	s.currentOrder = &fetched
	s.mu.Unlock()
	s.apply(phaseFulfilled, "")
	return &fetched, nil
}

func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

func (s *Store) ClearCurrentOrder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentOrder = nil
}

func (s *Store) CurrentOrder() *Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentOrder
}

// Orders returns the cached history page, never nil.
func (s *Store) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orders == nil {
		return []Order{}
	}
	return s.orders
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

func (s *Store) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPages
}

func (s *Store) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPage
}

func (s *Store) TotalElements() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalElements
}

func errMessage(err error, fallback string) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
