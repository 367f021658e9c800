// Package storefront binds the session and the cart/order stores into the
// surface the view layer consumes: user identity is injected from the
// session, the cart auto-loads once per process when the session starts
// authenticated, and the shipping calculators are parameterized from config.
package storefront

import (
	"context"
	"sync"

	"github.com/example/storefront-client/internal/cart"
	"github.com/example/storefront-client/internal/order"
	"github.com/example/storefront-client/internal/session"
	"go.uber.org/zap"
)

// Options carries the shipping rule parameters. Zero values fall back to the
// package defaults in internal/cart.
type Options struct {
	FreeShippingThreshold float64
	FlatShippingCost      float64
}

type Storefront struct {
	session *session.Session
	cart    *cart.Store
	orders  *order.Store
	log     *zap.Logger

	threshold float64
	flatCost  float64

	mu            sync.Mutex
	autoLoadTried bool
}

func New(sess *session.Session, cartStore *cart.Store, orderStore *order.Store, opts Options, logger *zap.Logger) *Storefront {
	threshold := opts.FreeShippingThreshold
	if threshold == 0 {
		threshold = cart.DefaultFreeShippingThreshold
	}
	flatCost := opts.FlatShippingCost
	if flatCost == 0 {
		flatCost = cart.DefaultFlatShippingCost
	}
	return &Storefront{
		session:   sess,
		cart:      cartStore,
		orders:    orderStore,
		log:       logger,
		threshold: threshold,
		flatCost:  flatCost,
	}
}

func (s *Storefront) Cart() *cart.Store    { return s.cart }
func (s *Storefront) Orders() *order.Store { return s.orders }

func (s *Storefront) Authenticated() bool { return s.session.Authenticated() }
func (s *Storefront) User() *session.User { return s.session.User() }

// EnsureCartLoaded fetches the cart once per process, and only when the
// session is authenticated with a resolved user. Repeated calls after the
// first attempt are no-ops regardless of outcome; a retry takes a fresh user
// action.
func (s *Storefront) EnsureCartLoaded(ctx context.Context) error {
	userID := s.session.UserID()
	if !s.session.Authenticated() || userID == 0 {
		return nil
	}

	s.mu.Lock()
	if s.autoLoadTried || s.cart.Initialized() {
		s.mu.Unlock()
		return nil
	}
	s.autoLoadTried = true
	s.mu.Unlock()

	return s.cart.Fetch(ctx, userID)
}

// RefreshCart re-fetches the cart explicitly, outside the once-only gate.
func (s *Storefront) RefreshCart(ctx context.Context) error {
	userID := s.session.UserID()
	if userID == 0 {
		return nil
	}
	return s.cart.Fetch(ctx, userID)
}

// AddItem adds a product to the cart. Quantity defaults to one. Without a
// signed-in user this is a silent no-op, mirroring the view contract.
func (s *Storefront) AddItem(ctx context.Context, productID int64, quantity int) error {
	userID := s.session.UserID()
	if userID == 0 {
		return nil
	}
	if quantity == 0 {
		quantity = 1
	}
	return s.cart.AddItem(ctx, userID, productID, quantity)
}

func (s *Storefront) UpdateItem(ctx context.Context, cartItemID int64, quantity int) error {
	userID := s.session.UserID()
	if userID == 0 || quantity < 1 {
		return nil
	}
	return s.cart.UpdateItem(ctx, userID, cartItemID, quantity)
}

func (s *Storefront) RemoveItem(ctx context.Context, cartItemID int64) error {
	userID := s.session.UserID()
	if userID == 0 {
		return nil
	}
	return s.cart.RemoveItem(ctx, userID, cartItemID)
}

func (s *Storefront) Increment(ctx context.Context, cartItemID int64) error {
	userID := s.session.UserID()
	if userID == 0 {
		return nil
	}
	return s.cart.Increment(ctx, userID, cartItemID)
}

func (s *Storefront) Decrement(ctx context.Context, cartItemID int64) error {
	userID := s.session.UserID()
	if userID == 0 {
		return nil
	}
	return s.cart.Decrement(ctx, userID, cartItemID)
}

// ClearCart empties the cart and reports success as a boolean so imperative
// call sites can confirm only on a true success, not on network failure.
func (s *Storefront) ClearCart(ctx context.Context) bool {
	userID := s.session.UserID()
	if userID == 0 {
		return false
	}
	return s.cart.Clear(ctx, userID) == nil
}

func (s *Storefront) ClearCartError() { s.cart.ClearError() }

// ShippingCost applies the configured free-shipping rule to the current cart
// total.
func (s *Storefront) ShippingCost() float64 {
	totalPrice, _ := s.cart.Totals()
	return cart.ShippingCost(totalPrice, s.threshold, s.flatCost)
}

// OrderTotal is the current cart total plus shipping.
func (s *Storefront) OrderTotal() float64 {
	totalPrice, _ := s.cart.Totals()
	return cart.OrderTotal(totalPrice, s.threshold, s.flatCost)
}

// Checkout submits the order, then attempts to clear the cart. The two steps
// are not transactional: a failed clear is logged and the created order is
// returned anyway, so navigation to the confirmation view is never blocked.
func (s *Storefront) Checkout(ctx context.Context, req order.CreateOrderRequest) (*order.Order, error) {
	userID := s.session.UserID()
	if userID == 0 {
		return nil, order.ErrNoUser
	}

	created, err := s.orders.Create(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	if ok := s.ClearCart(ctx); !ok {
		s.log.Warn("cart clear after checkout failed",
			zap.Int64("order_id", created.ID))
	}
	return created, nil
}

// ListOrders loads one page of order history. Pages are 1-based here and
// translated to the backend's 0-based pages; size defaults to 10.
func (s *Storefront) ListOrders(ctx context.Context, page, size int) error {
	userID := s.session.UserID()
	if userID == 0 {
		return order.ErrNoUser
	}
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	return s.orders.ListForUser(ctx, userID, page-1, size)
}

func (s *Storefront) GetOrder(ctx context.Context, orderID int64) (*order.Order, error) {
	userID := s.session.UserID()
	if userID == 0 {
		return nil, order.ErrNoUser
	}
	return s.orders.Get(ctx, userID, orderID)
}

func (s *Storefront) GetOrderByNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	return s.orders.GetByNumber(ctx, orderNumber)
}

func (s *Storefront) UpdatePaymentStatus(ctx context.Context, orderID int64, status order.PaymentStatus) (*order.Order, error) {
	return s.orders.UpdatePaymentStatus(ctx, orderID, status)
}

func (s *Storefront) CancelOrder(ctx context.Context, orderID int64, reason string) (*order.Order, error) {
	return s.orders.Cancel(ctx, orderID, reason)
}
