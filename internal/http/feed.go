package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/observer"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
)

const feedBuffer = 16

type FeedHandler struct {
	session *Session
	logger  *zap.Logger
}

func NewFeedHandler(session *Session, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{session: session, logger: logger}
}

// CartEvents streams the badge state as server-sent events: once on connect
// and again after every cart change, until the client goes away.
func (h *FeedHandler) CartEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	updates := make(chan badgeView, feedBuffer)

	var (
		initial badgeView
		sub     observer.Subscription
	)
	h.session.Do(func(c *cart.Store, _ *order.Store) {
		initial = newBadgeView(c)
		// Runs under the session lock, so it must never block.
		sub = c.Subscribe(observer.Func(func() {
			offerLatest(updates, newBadgeView(c))
		}))
	})
	defer h.session.Do(func(*cart.Store, *order.Store) { sub.Unsubscribe() })

	startEventStream(w)
	if err := writeEvent(w, rc, "cart", initial); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case v := <-updates:
			if err := writeEvent(w, rc, "cart", v); err != nil {
				h.logger.Debug("cart feed closed", zap.Error(err))
				return
			}
		}
	}
}

// offerLatest enqueues v without blocking, dropping the oldest queued value
// when the buffer is full.
func offerLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func startEventStream(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", name, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	return rc.Flush()
}
