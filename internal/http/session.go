package httpapi

import (
	"sync"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
)

// Session serialises every touch of the cart and order stores. The stores are
// single-threaded, so handlers only reach them through Do.
type Session struct {
	mu     sync.Mutex
	cart   *cart.Store
	orders *order.Store
}

func NewSession(c *cart.Store, orders *order.Store) *Session {
	return &Session{cart: c, orders: orders}
}

func (s *Session) Do(fn func(c *cart.Store, orders *order.Store)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.cart, s.orders)
}
