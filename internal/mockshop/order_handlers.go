package mockshop

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/example/storefront-client/internal/order"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) createOrder(c *gin.Context) {
	userID := authUserID(c)

	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		fail(c, http.StatusBadRequest, "order must have at least one item")
		return
	}
	if req.ShippingAddress == "" || req.PhoneNumber == "" || req.PaymentMethod == "" {
		fail(c, http.StatusBadRequest, "shipping address, phone number and payment method are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var subtotal float64
	items := make([]order.OrderItem, 0, len(req.Items))
	for i, line := range req.Items {
		if line.ProductID == 0 || line.Quantity < 1 {
			fail(c, http.StatusBadRequest, "invalid order line")
			return
		}
		lineTotal := line.UnitPrice * float64(line.Quantity)
		subtotal += lineTotal
		items = append(items, order.OrderItem{
			ID:          int64(i + 1),
			ProductID:   line.ProductID,
			ProductName: s.catalog[line.ProductID].Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    lineTotal,
		})
	}

	billing := req.BillingAddress
	if billing == "" {
		billing = req.ShippingAddress
	}

	s.nextOrderID++
	created := &order.Order{
		ID:              s.nextOrderID,
		OrderNumber:     fmt.Sprintf("ORD-%d", s.nextOrderID),
		UserID:          userID,
		Status:          order.StatusAwaitingPayment,
		PaymentStatus:   order.PaymentPending,
		ShippingStatus:  order.ShippingNotShipped,
		Subtotal:        subtotal,
		TaxAmount:       req.TaxAmount,
		ShippingCost:    req.ShippingCost,
		TotalPrice:      subtotal + req.TaxAmount + req.ShippingCost,
		Currency:        "USD",
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		PhoneNumber:     req.PhoneNumber,
		PaymentMethod:   req.PaymentMethod,
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.orders = append(s.orders, created)
	respond(c, created)
}

func (s *Server) listOrders(c *gin.Context) {
	userID := authUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 10
	}
	ascending := c.DefaultQuery("sortDirection", "desc") == "asc"

	s.mu.Lock()
	defer s.mu.Unlock()

	mine := make([]*order.Order, 0)
	for _, o := range s.orders {
		if o.UserID == userID {
			mine = append(mine, o)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		if ascending {
			return mine[i].CreatedAt.Before(mine[j].CreatedAt)
		}
		return mine[i].CreatedAt.After(mine[j].CreatedAt)
	})

	total := len(mine)
	totalPages := (total + size - 1) / size
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	respondPaged(c, mine[start:end], total, totalPages, page, size)
}

func (s *Server) findOrder(id int64) *order.Order {
	for _, o := range s.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (s *Server) getOrder(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.findOrder(orderID)
	if o == nil || o.UserID != authUserID(c) {
		fail(c, http.StatusNotFound, "order not found")
		return
	}
	respond(c, o)
}

func (s *Server) getOrderByNumber(c *gin.Context) {
	number := c.Param("orderNumber")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.OrderNumber == number && o.UserID == authUserID(c) {
			respond(c, o)
			return
		}
	}
	fail(c, http.StatusNotFound, "order not found")
}

func (s *Server) updatePaymentStatus(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	status := order.PaymentStatus(c.Query("paymentStatus"))
	switch status {
	case order.PaymentPending, order.PaymentPaid, order.PaymentFailed, order.PaymentRefunded:
	default:
		fail(c, http.StatusBadRequest, "invalid payment status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.findOrder(orderID)
	if o == nil {
		fail(c, http.StatusNotFound, "order not found")
		return
	}

	o.PaymentStatus = status
	// Payment outcomes drive the order workflow forward; the client only
	// ever displays the result.
	switch status {
	case order.PaymentPaid:
		if o.Status == order.StatusAwaitingPayment {
			o.Status = order.StatusPaymentConfirmed
		}
	case order.PaymentFailed:
		o.Status = order.StatusPaymentFailed
	}
	o.UpdatedAt = time.Now()
	respond(c, o)
}

func (s *Server) shipOrder(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.findOrder(orderID)
	if o == nil {
		fail(c, http.StatusNotFound, "order not found")
		return
	}
	if o.Status == order.StatusCancelled {
		fail(c, http.StatusConflict, "order is cancelled")
		return
	}

	tracking := c.Query("trackingNumber")
	if tracking == "" {
		tracking = uuid.NewString()
	}
	o.TrackingNumber = tracking
	o.Status = order.StatusShipped
	o.ShippingStatus = order.ShippingShipped
	o.UpdatedAt = time.Now()
	respond(c, o)
}

func (s *Server) deliverOrder(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.findOrder(orderID)
	if o == nil {
		fail(c, http.StatusNotFound, "order not found")
		return
	}
	if o.Status != order.StatusShipped {
		fail(c, http.StatusConflict, "order has not been shipped")
		return
	}

	o.Status = order.StatusDelivered
	o.ShippingStatus = order.ShippingDelivered
	o.UpdatedAt = time.Now()
	respond(c, o)
}

func (s *Server) cancelOrder(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	if c.Query("reason") == "" {
		fail(c, http.StatusBadRequest, "cancellation reason is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.findOrder(orderID)
	if o == nil {
		fail(c, http.StatusNotFound, "order not found")
		return
	}
	if o.Status == order.StatusShipped || o.Status == order.StatusDelivered {
		fail(c, http.StatusConflict, "order has already shipped")
		return
	}

	o.Status = order.StatusCancelled
	o.UpdatedAt = time.Now()
	respond(c, o)
}
