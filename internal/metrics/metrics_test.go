package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
)

func TestRecordCheckout(t *testing.T) {
	m := New()

	m.RecordCheckout(checkout.OutcomePlaced)
	m.RecordCheckout(checkout.OutcomePlaced)
	m.RecordCheckout(checkout.OutcomePersistFailed)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.checkouts.WithLabelValues("placed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkouts.WithLabelValues("persist_failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.checkouts.WithLabelValues("nothing_selected")))
}

func TestCartObserver(t *testing.T) {
	m := New()
	c := cart.NewStore()
	c.Subscribe(m.CartObserver(c))

	c.AddProduct(catalog.Product{Name: "Camiseta", Price: "R$ 10,00"}, 3)
	c.AddProduct(catalog.Product{Name: "Boné", Price: "R$ 5,00"}, 1)
	c.ToggleSelected(c.Lines()[1])

	assert.Equal(t, 4.0, testutil.ToFloat64(m.cartItems))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartSelected))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.cartMutations))
}

func TestOrderObserver(t *testing.T) {
	m := New()
	orders := order.NewStore()
	orders.Subscribe(m.OrderObserver(orders.Len))

	orders.Add(order.Order{ID: "PEDIDO-1000-1000"})
	orders.Add(order.Order{ID: "PEDIDO-2000-2000"})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ordersMirrored))
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordCheckout(checkout.OutcomeNothingSelected)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `storefront_checkouts_total{outcome="nothing_selected"} 1`))
}
