package cart

import "time"

// CartItem is a single line in the cart. Product name and image are
// denormalized snapshots taken by the backend at add time.
type CartItem struct {
	ID           int64     `json:"id"`
	CartID       int64     `json:"cartId"`
	ProductID    int64     `json:"productId"`
	ProductName  string    `json:"productName"`
	ProductImage string    `json:"productImage"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unitPrice"`
	Subtotal     float64   `json:"subtotal"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Cart is the server-owned aggregate. TotalPrice and TotalQuantity are always
// recomputed by the backend; the client never mutates them.
type Cart struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"userId"`
	Items         []CartItem `json:"items"`
	TotalPrice    float64    `json:"totalPrice"`
	TotalQuantity int        `json:"totalQuantity"`
	Active        bool       `json:"active"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
