package order

import "time"

// Status is the backend-driven order workflow state. The client only
// displays statuses; it never computes transitions locally.
type Status string

const (
	StatusAwaitingPayment        Status = "AWAITING_PAYMENT"
	StatusPaymentConfirmed       Status = "PAYMENT_CONFIRMED"
	StatusStockReserved          Status = "STOCK_RESERVED"
	StatusReadyForShipment       Status = "READY_FOR_SHIPMENT"
	StatusShipped                Status = "SHIPPED"
	StatusDelivered              Status = "DELIVERED"
	StatusCancelled              Status = "CANCELLED"
	StatusPaymentFailed          Status = "PAYMENT_FAILED"
	StatusStockReservationFailed Status = "STOCK_RESERVATION_FAILED"
)

// PaymentStatus is polled/updated independently of the order workflow.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

type ShippingStatus string

const (
	ShippingNotShipped ShippingStatus = "NOT_SHIPPED"
	ShippingShipped    ShippingStatus = "SHIPPED"
	ShippingDelivered  ShippingStatus = "DELIVERED"
)

// OrderItem is immutable after checkout from the client's perspective.
type OrderItem struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Subtotal    float64 `json:"subtotal"`
}

// Order is created from a cart snapshot at checkout and is independent of
// the cart afterwards.
type Order struct {
	ID              int64          `json:"id"`
	OrderNumber     string         `json:"orderNumber"`
	UserID          int64          `json:"userId"`
	Status          Status         `json:"status"`
	PaymentStatus   PaymentStatus  `json:"paymentStatus"`
	ShippingStatus  ShippingStatus `json:"shippingStatus"`
	Subtotal        float64        `json:"subtotal"`
	TaxAmount       float64        `json:"taxAmount"`
	ShippingCost    float64        `json:"shippingCost"`
	TotalPrice      float64        `json:"totalPrice"`
	Currency        string         `json:"currency"`
	ShippingAddress string         `json:"shippingAddress"`
	BillingAddress  string         `json:"billingAddress"`
	PhoneNumber     string         `json:"phoneNumber"`
	PaymentMethod   string         `json:"paymentMethod"`
	TrackingNumber  string         `json:"trackingNumber,omitempty"`
	Items           []OrderItem    `json:"items"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// LineItem is a checkout line captured from the client's current cart view.
// Unit prices are not re-verified client-side; the backend computes the
// canonical total.
type LineItem struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// CreateOrderRequest is the checkout submission payload.
type CreateOrderRequest struct {
	Items           []LineItem `json:"items"`
	ShippingAddress string     `json:"shippingAddress"`
	BillingAddress  string     `json:"billingAddress,omitempty"`
	PhoneNumber     string     `json:"phoneNumber"`
	PaymentMethod   string     `json:"paymentMethod"`
	ShippingCost    float64    `json:"shippingCost"`
	TaxAmount       float64    `json:"taxAmount"`
}
