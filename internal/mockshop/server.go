// Package mockshop is an in-memory stand-in for the storefront backend. It
// implements the full REST surface the client consumes, including the
// server-authoritative half of the contract: cart totals and order totals are
// always recomputed here, never trusted from the client.
//
// It exists for local development (cmd/mockshop) and integration tests.
package mockshop

import (
	"net/http"
	"sync"
	"time"

	"github.com/example/storefront-client/internal/cart"
	"github.com/example/storefront-client/internal/order"
	"github.com/example/storefront-client/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type product struct {
	ID    int64
	Name  string
	Image string
	Price float64
}

type account struct {
	user         session.User
	passwordHash []byte
}

type Server struct {
	log       *zap.Logger
	jwtSecret []byte
	tokenTTL  time.Duration

	mu          sync.Mutex
	accounts    map[string]*account
	carts       map[int64]*cart.Cart
	orders      []*order.Order
	catalog     map[int64]product
	nextItemID  int64
	nextOrderID int64
}

// DemoEmail and DemoPassword are the seeded credentials for local use.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "storefront-demo"
)

func New(jwtSecret string, logger *zap.Logger) (*Server, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s := &Server{
		log:       logger,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  15 * time.Minute,
		accounts: map[string]*account{
			DemoEmail: {
				user:         session.User{ID: 1, Email: DemoEmail, Username: "demo", Role: "CUSTOMER"},
				passwordHash: hash,
			},
		},
		carts: make(map[int64]*cart.Cart),
		catalog: map[int64]product{
			1: {ID: 1, Name: "Wireless Headphones", Image: "/img/headphones.jpg", Price: 120},
			2: {ID: 2, Name: "Mechanical Keyboard", Image: "/img/keyboard.jpg", Price: 250},
			3: {ID: 3, Name: "USB-C Dock", Image: "/img/dock.jpg", Price: 90},
			4: {ID: 4, Name: "4K Monitor", Image: "/img/monitor.jpg", Price: 600},
			7: {ID: 7, Name: "Desk Lamp", Image: "/img/lamp.jpg", Price: 100},
		},
	}
	return s, nil
}

// Router builds the gin engine with every route the client consumes.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/v1")
	v1.POST("/auth/login", s.login)

	authed := v1.Group("", s.requireAuth)
	authed.GET("/cart/:userId", s.getCart)
	authed.POST("/cart/:userId/add", s.addToCart)
	authed.PUT("/cart/:userId/items/:itemId", s.updateCartItem)
	authed.DELETE("/cart/:userId/items/:itemId", s.removeCartItem)
	authed.DELETE("/cart/:userId/clear", s.clearCart)

	authed.POST("/orders", s.createOrder)
	authed.GET("/orders", s.listOrders)
	authed.GET("/orders/:orderId", s.getOrder)
	authed.GET("/orders/number/:orderNumber", s.getOrderByNumber)
	authed.PATCH("/orders/:orderId/payment-status", s.updatePaymentStatus)
	authed.PATCH("/orders/:orderId/ship", s.shipOrder)
	authed.PATCH("/orders/:orderId/deliver", s.deliverOrder)
	authed.DELETE("/orders/:orderId/cancel", s.cancelOrder)

	return r
}

// respond writes the backend's standard envelope.
func respond(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "message": ""})
}

func respondPaged(c *gin.Context, data any, totalElements, totalPages, page, size int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"message": "",
		"pagination": gin.H{
			"totalElements": totalElements,
			"totalPages":    totalPages,
			"currentPage":   page,
			"pageSize":      size,
		},
	})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "data": nil, "message": message})
}
