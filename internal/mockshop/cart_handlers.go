package mockshop

import (
	"net/http"
	"strconv"
	"time"

	"github.com/example/storefront-client/internal/cart"
	"github.com/gin-gonic/gin"
)

// cartFor returns the user's cart, creating an empty one implicitly on first
// touch. Carts are emptied, never destroyed.
func (s *Server) cartFor(userID int64) *cart.Cart {
	c, ok := s.carts[userID]
	if !ok {
		now := time.Now()
		c = &cart.Cart{
			ID:        userID,
			UserID:    userID,
			Items:     []cart.CartItem{},
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.carts[userID] = c
	}
	return c
}

// recompute refreshes subtotals and cart totals. The backend owns these
// numbers; clients never send them.
func recompute(c *cart.Cart) {
	var total float64
	var quantity int
	for i := range c.Items {
		c.Items[i].Subtotal = c.Items[i].UnitPrice * float64(c.Items[i].Quantity)
		total += c.Items[i].Subtotal
		quantity += c.Items[i].Quantity
	}
	c.TotalPrice = total
	c.TotalQuantity = quantity
	c.UpdatedAt = time.Now()
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// cartOwner resolves the :userId path param and checks it against the token.
func (s *Server) cartOwner(c *gin.Context) (int64, bool) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return 0, false
	}
	if userID != authUserID(c) {
		fail(c, http.StatusForbidden, "cart belongs to another user")
		return 0, false
	}
	return userID, true
}

func (s *Server) getCart(c *gin.Context) {
	userID, ok := s.cartOwner(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	respond(c, s.cartFor(userID))
}

type addItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (s *Server) addToCart(c *gin.Context) {
	userID, ok := s.cartOwner(c)
	if !ok {
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity < 1 {
		fail(c, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.catalog[req.ProductID]
	if !ok {
		fail(c, http.StatusNotFound, "product not found")
		return
	}

	userCart := s.cartFor(userID)
	merged := false
	for i := range userCart.Items {
		if userCart.Items[i].ProductID == req.ProductID {
			userCart.Items[i].Quantity += req.Quantity
			userCart.Items[i].UpdatedAt = time.Now()
			merged = true
			break
		}
	}
	if !merged {
		s.nextItemID++
		now := time.Now()
		userCart.Items = append(userCart.Items, cart.CartItem{
			ID:           s.nextItemID,
			CartID:       userCart.ID,
			ProductID:    item.ID,
			ProductName:  item.Name,
			ProductImage: item.Image,
			Quantity:     req.Quantity,
			UnitPrice:    item.Price,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	recompute(userCart)
	respond(c, userCart)
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) updateCartItem(c *gin.Context) {
	userID, ok := s.cartOwner(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity < 1 {
		fail(c, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userCart := s.cartFor(userID)
	for i := range userCart.Items {
		if userCart.Items[i].ID == itemID {
			userCart.Items[i].Quantity = req.Quantity
			userCart.Items[i].UpdatedAt = time.Now()
			recompute(userCart)
			respond(c, userCart)
			return
		}
	}
	fail(c, http.StatusNotFound, "cart item not found")
}

func (s *Server) removeCartItem(c *gin.Context) {
	userID, ok := s.cartOwner(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userCart := s.cartFor(userID)
	for i := range userCart.Items {
		if userCart.Items[i].ID == itemID {
			userCart.Items = append(userCart.Items[:i], userCart.Items[i+1:]...)
			recompute(userCart)
			respond(c, userCart)
			return
		}
	}
	fail(c, http.StatusNotFound, "cart item not found")
}

func (s *Server) clearCart(c *gin.Context) {
	userID, ok := s.cartOwner(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userCart := s.cartFor(userID)
	userCart.Items = []cart.CartItem{}
	recompute(userCart)
	respond(c, nil)
}
