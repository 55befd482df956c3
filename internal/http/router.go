package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/middleware"
)

type Deps struct {
	Logger  *zap.Logger
	Session *Session

	Catalog  catalog.Repository
	Checkout Checkouter
	History  OrderHistory

	OrderStreamInterval time.Duration
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := d.OrderStreamInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	catalogH := NewCatalogHandler(d.Catalog, logger)
	cartH := NewCartHandler(d.Session)
	feedH := NewFeedHandler(d.Session, logger)
	orderH := NewOrderHandler(d.Session, d.Checkout, d.History, interval, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", Health)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/stores", catalogH.ListStores)
		r.Get("/stores/{storeName}/products", catalogH.ListProducts)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartH.GetCart)
			r.Delete("/", cartH.Clear)
			r.Get("/events", feedH.CartEvents)
			r.Post("/items", cartH.AddItem)
			r.Patch("/items", cartH.UpdateItem)
			r.Post("/items/remove", cartH.RemoveItem)
			r.Post("/items/toggle", cartH.ToggleItem)
		})

		r.Post("/checkout", orderH.Checkout)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderH.ListOrders)
			r.Get("/history", orderH.History)
			r.Get("/history/events", orderH.HistoryEvents)
			r.Get("/{orderId}", orderH.GetOrder)
		})
	})

	return r
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "storefront-service-go"})
}
