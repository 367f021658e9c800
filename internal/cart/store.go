package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/example/storefront-client/internal/apiclient"
	"go.uber.org/zap"
)

var (
	ErrNoUser          = errors.New("user id is required")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Fallback messages used when the backend envelope carries no message.
const (
	msgFetchFailed  = "unable to load cart"
	msgAddFailed    = "unable to add item"
	msgUpdateFailed = "update failed"
	msgRemoveFailed = "remove failed"
	msgClearFailed  = "unable to clear cart"
)

// Store holds the authoritative in-memory snapshot of the current user's
// cart. Every successful operation replaces the snapshot wholesale with the
// backend's recomputed cart; there are no local (optimistic) mutations.
//
// Two in-flight mutations on the same cart are not serialized: the last
// response to arrive wins, which can transiently show a stale quantity when
// responses arrive out of issue order. The mutex protects the snapshot write
// itself, not request ordering.
type Store struct {
	api *apiclient.Client
	log *zap.Logger

	mu             sync.Mutex
	cart           *Cart
	loading        bool
	syncInProgress bool
	errMsg         string
	initialized    bool
}

func NewStore(api *apiclient.Client, logger *zap.Logger) *Store {
	return &Store{api: api, log: logger}
}

// Fetch retrieves the current cart. It marks the store initialized whether it
// succeeds or fails, so the UI can distinguish "empty" from "not yet tried".
func (s *Store) Fetch(ctx context.Context, userID int64) error {
	if userID == 0 {
		return ErrNoUser
	}

	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	var fetched Cart
	err := s.api.Get(ctx, fmt.Sprintf("/v1/cart/%d", userID), nil, &fetched)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.initialized = true
	if err != nil {
		s.errMsg = errMessage(err, msgFetchFailed)
		s.log.Warn("cart fetch failed", zap.Int64("user_id", userID), zap.Error(err))
		return err
	}
	s.cart = &fetched
	return nil
}

// AddItem requests an addition and replaces the snapshot with the backend's
// recomputed cart, totals included.
func (s *Store) AddItem(ctx context.Context, userID, productID int64, quantity int) error {
	if userID == 0 {
		return ErrNoUser
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	body := map[string]any{"productId": productID, "quantity": quantity}
	return s.mutate(msgAddFailed, func() (*Cart, error) {
		var updated Cart
		err := s.api.Post(ctx, fmt.Sprintf("/v1/cart/%d/add", userID), body, &updated)
		return &updated, err
	})
}

// UpdateItem sets a line item's quantity. Quantities below 1 are refused
// before any network call; removal is a distinct operation.
func (s *Store) UpdateItem(ctx context.Context, userID, cartItemID int64, quantity int) error {
	if userID == 0 {
		return ErrNoUser
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	body := map[string]any{"quantity": quantity}
	return s.mutate(msgUpdateFailed, func() (*Cart, error) {
		var updated Cart
		err := s.api.Put(ctx, fmt.Sprintf("/v1/cart/%d/items/%d", userID, cartItemID), body, &updated)
		return &updated, err
	})
}

func (s *Store) RemoveItem(ctx context.Context, userID, cartItemID int64) error {
	if userID == 0 {
		return ErrNoUser
	}

	return s.mutate(msgRemoveFailed, func() (*Cart, error) {
		var updated Cart
		err := s.api.Delete(ctx, fmt.Sprintf("/v1/cart/%d/items/%d", userID, cartItemID), nil, &updated)
		return &updated, err
	})
}

// Clear empties the cart. On success the snapshot becomes absent; the cart is
// emptied, never destroyed, so a later fetch returns a fresh empty cart.
func (s *Store) Clear(ctx context.Context, userID int64) error {
	if userID == 0 {
		return ErrNoUser
	}

	s.mu.Lock()
	s.syncInProgress = true
	s.errMsg = ""
	s.mu.Unlock()

	err := s.api.Delete(ctx, fmt.Sprintf("/v1/cart/%d/clear", userID), nil, nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncInProgress = false
	if err != nil {
		s.errMsg = errMessage(err, msgClearFailed)
		return err
	}
	s.cart = nil
	return nil
}

// Increment raises a line item's quantity by one. Unknown items are a no-op.
func (s *Store) Increment(ctx context.Context, userID, cartItemID int64) error {
	quantity, ok := s.itemQuantity(cartItemID)
	if !ok {
		return nil
	}
	return s.UpdateItem(ctx, userID, cartItemID, quantity+1)
}

// Decrement lowers a line item's quantity by one. At quantity 1 it is a no-op
// and issues no network call; removal is explicit.
func (s *Store) Decrement(ctx context.Context, userID, cartItemID int64) error {
	quantity, ok := s.itemQuantity(cartItemID)
	if !ok || quantity <= 1 {
		return nil
	}
	return s.UpdateItem(ctx, userID, cartItemID, quantity-1)
}

// ClearError resets the stored error message.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

// mutate runs a mutating call under the syncInProgress flag (distinct from
// loading, so a full-fetch spinner and a per-action spinner never collide)
// and replaces the snapshot on success.
func (s *Store) mutate(fallback string, call func() (*Cart, error)) error {
	s.mu.Lock()
	s.syncInProgress = true
	s.errMsg = ""
	s.mu.Unlock()

	updated, err := call()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncInProgress = false
	if err != nil {
		s.errMsg = errMessage(err, fallback)
		s.log.Warn("cart mutation failed", zap.Error(err))
		return err
	}
	s.cart = updated
	return nil
}

func (s *Store) itemQuantity(cartItemID int64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return 0, false
	}
	for _, item := range s.cart.Items {
		if item.ID == cartItemID {
			return item.Quantity, true
		}
	}
	return 0, false
}

// Cart returns the current snapshot, nil when absent.
func (s *Store) Cart() *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// Items returns the snapshot's line items, never nil.
func (s *Store) Items() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return []CartItem{}
	}
	return s.cart.Items
}

// Totals returns the server-computed total price and quantity, zeros when the
// cart is absent.
func (s *Store) Totals() (totalPrice float64, totalQuantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return 0, 0
	}
	return s.cart.TotalPrice, s.cart.TotalQuantity
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) SyncInProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncInProgress
}

func (s *Store) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Err returns the stored error message, empty when there is none.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart == nil || len(s.cart.Items) == 0
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return 0
	}
	return len(s.cart.Items)
}

// errMessage prefers the backend envelope message and falls back to the
// operation's fixed default for transport-level failures.
func errMessage(err error, fallback string) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
