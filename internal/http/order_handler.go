package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
)

// Checkouter places orders. Place runs under the session lock; Announce runs
// after it is released.
type Checkouter interface {
	Place(ctx context.Context) (order.Order, error)
	Announce(ctx context.Context, o order.Order)
}

// OrderHistory is the durable order list.
type OrderHistory interface {
	List(ctx context.Context) ([]order.Order, error)
	GetByID(ctx context.Context, id string) (order.Order, error)
	Stream(ctx context.Context, every time.Duration) <-chan []order.Order
}

type OrderHandler struct {
	session        *Session
	checkout       Checkouter
	history        OrderHistory
	streamInterval time.Duration
	logger         *zap.Logger
}

func NewOrderHandler(session *Session, co Checkouter, history OrderHistory, streamInterval time.Duration, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		session:        session,
		checkout:       co,
		history:        history,
		streamInterval: streamInterval,
		logger:         logger,
	}
}

// Checkout answers POST /api/checkout.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var (
		placed order.Order
		err    error
	)
	h.session.Do(func(*cart.Store, *order.Store) {
		placed, err = h.checkout.Place(ctx)
	})

	var persistErr *checkout.PersistError
	switch {
	case err == nil:
		h.checkout.Announce(ctx, placed)
		writeJSON(w, http.StatusCreated, newOrderView(placed))
	case errors.Is(err, checkout.ErrNothingSelected):
		writeError(w, r, http.StatusUnprocessableEntity, "select at least one item to place an order")
	case errors.As(err, &persistErr):
		writeError(w, r, http.StatusBadGateway, "failed to save order, please try again")
	default:
		h.logger.Error("checkout", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "checkout failed")
	}
}

// ListOrders returns the orders placed during this run, newest first.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var orders []order.Order
	h.session.Do(func(_ *cart.Store, s *order.Store) {
		orders = s.List()
	})
	writeJSON(w, http.StatusOK, newOrderViews(orders))
}

// GetOrder answers from the orders placed during this run, then from
// persistence.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		writeError(w, r, http.StatusBadRequest, "missing orderId")
		return
	}

	var (
		o     order.Order
		found bool
	)
	h.session.Do(func(_ *cart.Store, s *order.Store) {
		o, found = s.FindByID(orderID)
	})
	if found {
		writeJSON(w, http.StatusOK, newOrderView(o))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.history.GetByID(ctx, orderID)
	switch {
	case errors.Is(err, order.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "order not found")
	case err != nil:
		h.logger.Error("get order", zap.String("order_id", orderID), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to load order")
	default:
		writeJSON(w, http.StatusOK, newOrderView(o))
	}
}

// History lists every persisted order, newest first.
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.history.List(ctx)
	if err != nil {
		h.logger.Error("list order history", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to load orders")
		return
	}
	writeJSON(w, http.StatusOK, newOrderViews(orders))
}

// HistoryEvents streams the persisted order list as server-sent events.
func (h *OrderHandler) HistoryEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	startEventStream(w)

	for orders := range h.history.Stream(r.Context(), h.streamInterval) {
		if err := writeEvent(w, rc, "orders", newOrderViews(orders)); err != nil {
			return
		}
	}
}
