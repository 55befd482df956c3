// Package metrics exposes the storefront's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/checkout"
)

const namespace = "storefront"

// CartReader is the read side of the cart the gauges sample.
type CartReader interface {
	TotalItemCount() int
	SelectedLineCount() int
}

type Metrics struct {
	registry *prometheus.Registry

	checkouts      *prometheus.CounterVec
	cartItems      prometheus.Gauge
	cartSelected   prometheus.Gauge
	cartMutations  prometheus.Counter
	ordersMirrored prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Checkout attempts by outcome.",
		}, []string{"outcome"}),
		cartItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cart_items",
			Help:      "Units in the cart across all lines.",
		}),
		cartSelected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cart_selected_lines",
			Help:      "Cart lines currently selected for checkout.",
		}),
		cartMutations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_notifications_total",
			Help:      "Cart change notifications observed.",
		}),
		ordersMirrored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "orders_local",
			Help:      "Orders held in the in-process order store.",
		}),
	}
	m.registry.MustRegister(
		m.checkouts,
		m.cartItems,
		m.cartSelected,
		m.cartMutations,
		m.ordersMirrored,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordCheckout(outcome checkout.Outcome) {
	m.checkouts.WithLabelValues(string(outcome)).Inc()
}

// CartObserver returns an observer that resamples the cart gauges on every
// cart notification.
func (m *Metrics) CartObserver(c CartReader) *CartObserver {
	return &CartObserver{m: m, cart: c}
}

// OrderObserver returns an observer that tracks the local order count.
func (m *Metrics) OrderObserver(count func() int) *OrderObserver {
	return &OrderObserver{m: m, count: count}
}

type CartObserver struct {
	m    *Metrics
	cart CartReader
}

func (o *CartObserver) Notify() {
	o.m.cartMutations.Inc()
	o.m.cartItems.Set(float64(o.cart.TotalItemCount()))
	o.m.cartSelected.Set(float64(o.cart.SelectedLineCount()))
}

type OrderObserver struct {
	m     *Metrics
	count func() int
}

func (o *OrderObserver) Notify() {
	o.m.ordersMirrored.Set(float64(o.count()))
}
