package httpapi

import (
	"fmt"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
)

type CartHandler struct {
	session *Session
}

func NewCartHandler(session *Session) *CartHandler {
	return &CartHandler{session: session}
}

type lineRequest struct {
	Product  catalog.Product `json:"product"`
	Quantity *int            `json:"quantity,omitempty"`
}

func (req lineRequest) line() cart.Line {
	return cart.Line{Product: req.Product}
}

func (h *CartHandler) decode(w http.ResponseWriter, r *http.Request) (lineRequest, bool) {
	var req lineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if req.Product.Name == "" {
		writeError(w, r, http.StatusBadRequest, "product.name is required")
		return req, false
	}
	return req, true
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	var view cartView
	h.session.Do(func(c *cart.Store, _ *order.Store) {
		view = newCartView(c)
	})
	writeJSON(w, http.StatusOK, view)
}

// AddItem answers POST /api/cart/items. Quantity defaults to 1.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty < 1 {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("quantity must be at least 1, got %d", qty))
		return
	}

	h.mutate(w, func(c *cart.Store) { c.AddProduct(req.Product, qty) })
}

// UpdateItem answers PATCH /api/cart/items. A quantity of zero or less
// removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	if req.Quantity == nil {
		writeError(w, r, http.StatusBadRequest, "quantity is required")
		return
	}

	h.mutate(w, func(c *cart.Store) { c.UpdateQuantity(req.line(), *req.Quantity) })
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	h.mutate(w, func(c *cart.Store) { c.RemoveLine(req.line()) })
}

func (h *CartHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	h.mutate(w, func(c *cart.Store) { c.ToggleSelected(req.line()) })
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, func(c *cart.Store) { c.Clear() })
}

func (h *CartHandler) mutate(w http.ResponseWriter, fn func(c *cart.Store)) {
	var view cartView
	h.session.Do(func(c *cart.Store, _ *order.Store) {
		fn(c)
		view = newCartView(c)
	})
	writeJSON(w, http.StatusOK, view)
}
