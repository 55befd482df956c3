package httpapi

import (
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
)

type cartView struct {
	Lines     []cart.Line `json:"lines"`
	ItemCount int         `json:"itemCount"`
	Total     string      `json:"total"`
	// Unpriced names selected products whose price could not be read.
	Unpriced []string `json:"unpriced,omitempty"`
}

func newCartView(c *cart.Store) cartView {
	total := c.SelectedTotal()
	v := cartView{
		Lines:     c.Lines(),
		ItemCount: c.TotalItemCount(),
		Total:     total.Formatted,
	}
	for _, l := range total.Unpriced {
		v.Unpriced = append(v.Unpriced, l.Product.Name)
	}
	return v
}

// badgeView is what the cart feed pushes after every change.
type badgeView struct {
	ItemCount int    `json:"itemCount"`
	Total     string `json:"total"`
}

func newBadgeView(c *cart.Store) badgeView {
	return badgeView{ItemCount: c.TotalItemCount(), Total: c.SelectedTotalFormatted()}
}

type orderView struct {
	ID          string       `json:"id"`
	CreatedAt   string       `json:"createdAt"`
	Status      string       `json:"status"`
	StatusLabel string       `json:"statusLabel"`
	Total       string       `json:"total"`
	Lines       []order.Line `json:"lines"`
}

func newOrderView(o order.Order) orderView {
	lines := o.Lines
	if lines == nil {
		lines = []order.Line{}
	}
	return orderView{
		ID:          o.ID,
		CreatedAt:   order.FormatTimestamp(o.CreatedAt),
		Status:      string(o.Status),
		StatusLabel: o.Status.Label(),
		Total:       o.Total,
		Lines:       lines,
	}
}

func newOrderViews(orders []order.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderView(o))
	}
	return out
}
