package order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/example/storefront-client/internal/apiclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeEnvelope(w http.ResponseWriter, data any) {
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data, "message": ""})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "data": nil, "message": message})
}

func newStoreWithHandler(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	api := apiclient.New(srv.URL, nil, zap.NewNop())
	return NewStore(api, zap.NewNop())
}

func validRequest() CreateOrderRequest {
	return CreateOrderRequest{
		Items:           []LineItem{{ProductID: 7, Quantity: 2, UnitPrice: 100}},
		ShippingAddress: "1 Main St",
		PhoneNumber:     "+1 555 0100",
		PaymentMethod:   "CREDIT_CARD",
		ShippingCost:    0,
		TaxAmount:       0,
	}
}

// ============================================
// Create
// ============================================

func TestStore_Create_Success(t *testing.T) {
	store := newStoreWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		var req CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(7), req.Items[0].ProductID)

		writeEnvelope(w, Order{
			ID:          55,
			OrderNumber: "ORD-55",
			Status:      StatusAwaitingPayment,
			TotalPrice:  200,
		})
	})

	created, err := store.Create(context.Background(), 1, validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(55), created.ID)
	assert.Equal(t, "ORD-55", created.OrderNumber)

	current := store.CurrentOrder()
	require.NotNil(t, current)
	assert.Equal(t, int64(55), current.ID)
	assert.False(t, store.Loading())
	assert.Empty(t, store.Err())
}

func TestStore_Create_ValidationShortCircuits(t *testing.T) {
	var calls atomic.Int32
	store := newStoreWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	tests := []struct {
		name     string
		mutate   func(*CreateOrderRequest)
		expected error
	}{
		{"no items", func(r *CreateOrderRequest) { r.Items = nil }, ErrEmptyOrder},
		{"zero quantity line", func(r *CreateOrderRequest) { r.Items[0].Quantity = 0 }, ErrInvalidLineItem},
		{"missing product", func(r *CreateOrderRequest) { r.Items[0].ProductID = 0 }, ErrInvalidLineItem},
		{"missing address", func(r *CreateOrderRequest) { r.ShippingAddress = "" }, ErrMissingAddress},
		{"missing phone", func(r *CreateOrderRequest) { r.PhoneNumber = "" }, ErrMissingPhone},
		{"missing payment method", func(r *CreateOrderRequest) { r.PaymentMethod = "" }, ErrMissingPayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			_, err := store.Create(context.Background(), 1, req)

			assert.ErrorIs(t, err, tt.expected)
			assert.Zero(t, calls.Load(), "validation failures must not dispatch")
			assert.Empty(t, store.Err())
			assert.False(t, store.Loading())
		})
	}
}

func TestStore_Create_RequiresUser(t *testing.T) {
	store := newStoreWithHandler(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := store.Create(context.Background(), 0, validRequest())
	assert.ErrorIs(t, err, ErrNoUser)
}

// ============================================
// List
// ============================================

func TestStore_ListForUser_QueryAndPagination(t *testing.T) {
	store := newStoreWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("size"))
		assert.Equal(t, "createdAt", q.Get("sortBy"))
		assert.Equal(t, "desc", q.Get("sortDirection"))

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "",
			"data":    []Order{{ID: 9, OrderNumber: "ORD-9"}, {ID: 8, OrderNumber: "ORD-8"}},
			"pagination": map[string]int{
				"totalElements": 22,
				"totalPages":    3,
				"currentPage":   2,
				"pageSize":      10,
			},
		})
	})

	require.NoError(t, store.ListForUser(context.Background(), 1, 2, 10))

	orders := store.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, int64(9), orders[0].ID)
	assert.Equal(t, 22, store.TotalElements())
	assert.Equal(t, 3, store.TotalPages())
	assert.Equal(t, 2, store.CurrentPage())
}

func TestStore_ListForUser_ReplacesWholesale(t *testing.T) {
	var pages atomic.Int32
	store := newStoreWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		page := pages.Add(1)
		var data []Order
		if page == 1 {
			data = []Order{{ID: 1}, {ID: 2}}
		} else {
			data = []Order{{ID: 3}}
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true, "message": "", "data": data,
			"pagination": map[string]int{"totalElements": 3, "totalPages": 2, "currentPage": int(page) - 1, "pageSize": 2},
		})
	})

	require.NoError(t, store.ListForUser(context.Background(), 1, 0, 2))
	require.NoError(t, store.ListForUser(context.Background(), 1, 1, 2))

	orders := store.Orders()
	require.Len(t, orders, 1, "no incremental merge")
	assert.Equal(t, int64(3), orders[0].ID)
}

// ============================================
// Get / lookup
// ============================================

func TestStore_Get_ReplacesCurrentOrder(t *testing.T) {
	store := newStoreWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders/42", r.URL.Path)
		writeEnvelope(w, Order{ID: 42, Status: StatusShipped})
	})

	fetched, err := store.Get(context.Background(), 1, 42)

	require.NoError(t, err)
	assert.Equal(t, StatusShipped, fetched.Status)
	assert.Equal(t, int64(42), store.CurrentOrder().ID)
}

func TestStore_GetByNumber_EscapesPath(t *testing.T) {
	store := newStoreWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders/number/ORD-42", r.URL.Path)
		writeEnvelope(w, Order{ID: 42, OrderNumber: "ORD-42"})
	})

	fetched, err := store.GetByNumber(context.Background(), "ORD-42")

	require.NoError(t, err)
	assert.Equal(t, "ORD-42", fetched.OrderNumber)
}

func TestStore_Get_MissingRefs(t *testing.T) {
	store := newStoreWithHandler(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := store.Get(context.Background(), 0, 42)
	assert.ErrorIs(t, err, ErrNoUser)

	_, err = store.Get(context.Background(), 1, 0)
	assert.ErrorIs(t, err, ErrMissingOrderRef)

	_, err = store.GetByNumber(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingOrderRef)
}

// ============================================
// Status mutations
// ============================================

func TestStore_UpdatePaymentStatus(t *testing.T) {
	store := newStoreWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v1/orders/42/payment-status", r.URL.Path)
		assert.Equal(t, "PAID", r.URL.Query().Get("paymentStatus"))
		writeEnvelope(w, Order{ID: 42, PaymentStatus: PaymentPaid, Status: StatusPaymentConfirmed})
	})

	updated, err := store.UpdatePaymentStatus(context.Background(), 42, PaymentPaid)

	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, StatusPaymentConfirmed, store.CurrentOrder().Status)
}

func TestStore_UpdatePaymentStatus_InvalidStatus(t *testing.T) {
	var calls atomic.Int32
	store := newStoreWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := store.UpdatePaymentStatus(context.Background(), 42, PaymentStatus("SETTLED"))

	assert.ErrorIs(t, err, ErrInvalidPayStatus)
	assert.Zero(t, calls.Load())
}

func TestStore_Cancel_EscapesReason(t *testing.T) {
	store := newStoreWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v1/orders/42/cancel", r.URL.Path)
		assert.Equal(t, "changed my mind & found cheaper", r.URL.Query().Get("reason"))
		writeEnvelope(w, Order{ID: 42, Status: StatusCancelled})
	})

	updated, err := store.Cancel(context.Background(), 42, "changed my mind & found cheaper")

	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, updated.Status)
}

func TestStore_Cancel_RequiresReason(t *testing.T) {
	store := newStoreWithHandler(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := store.Cancel(context.Background(), 42, "")
	assert.ErrorIs(t, err, ErrMissingCancelWhy)
}

func TestStore_Ship_And_Deliver(t *testing.T) {
	store := newStoreWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		switch r.URL.Path {
		case "/v1/orders/42/ship":
			assert.Equal(t, "TRACK-1", r.URL.Query().Get("trackingNumber"))
			writeEnvelope(w, Order{ID: 42, Status: StatusShipped, TrackingNumber: "TRACK-1"})
		case "/v1/orders/42/deliver":
			writeEnvelope(w, Order{ID: 42, Status: StatusDelivered})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	shipped, err := store.Ship(context.Background(), 42, "TRACK-1")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, shipped.Status)

	delivered, err := store.Deliver(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, delivered.Status)
	assert.Equal(t, StatusDelivered, store.CurrentOrder().Status)
}

// ============================================
// Shared lifecycle
// ============================================

func TestStore_Lifecycle_RejectedStoresMessage(t *testing.T) {
	store := newStoreWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusBadRequest, "order window closed")
	})

	_, err := store.Create(context.Background(), 1, validRequest())

	require.Error(t, err)
	assert.Equal(t, "order window closed", store.Err())
	assert.False(t, store.Loading())
}

func TestStore_Lifecycle_PendingClearsPreviousError(t *testing.T) {
	var calls atomic.Int32
	store := newStoreWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeFailure(w, http.StatusInternalServerError, "first attempt failed")
			return
		}
		writeEnvelope(w, Order{ID: 1})
	})

	_, err := store.Create(context.Background(), 1, validRequest())
	require.Error(t, err)
	assert.Equal(t, "first attempt failed", store.Err())

	_, err = store.Create(context.Background(), 1, validRequest())
	require.NoError(t, err)
	assert.Empty(t, store.Err())
}

func TestStore_Lifecycle_FallbackMessage(t *testing.T) {
	store := newStoreWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusInternalServerError, "")
	})

	_, err := store.Create(context.Background(), 1, validRequest())
	require.Error(t, err)
	assert.Equal(t, "unable to create order", store.Err())
}

func TestStore_ClearCurrentOrder(t *testing.T) {
	store := newStoreWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, Order{ID: 42})
	})

	_, err := store.Get(context.Background(), 1, 42)
	require.NoError(t, err)
	require.NotNil(t, store.CurrentOrder())

	store.ClearCurrentOrder()
	assert.Nil(t, store.CurrentOrder())
}
