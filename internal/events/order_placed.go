package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/pricing"
)

const (
	EventTypeOrderPlaced = "OrderPlaced"
	orderPlacedSchema    = "contracts/events/storefront/OrderPlaced.v1.payload.schema.json"
)

type OrderPlacedLine struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	ImageURL string `json:"imageUrl,omitempty"`
	Quantity int    `json:"quantity"`
}

type OrderPlacedPayload struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
	Total   string `json:"total"`
	// TotalAmount is absent when the display total could not be parsed.
	TotalAmount *decimal.Decimal  `json:"totalAmount,omitempty"`
	Lines       []OrderPlacedLine `json:"lines"`
	PlacedAt    time.Time         `json:"placedAt"`
}

type OrderPlacedEvent struct {
	EventEnvelope
	Payload OrderPlacedPayload `json:"payload"`
}

func newOrderPlacedPayload(o order.Order) OrderPlacedPayload {
	p := OrderPlacedPayload{
		OrderID:  o.ID,
		Status:   string(o.Status),
		Total:    o.Total,
		PlacedAt: o.CreatedAt.UTC(),
		Lines:    make([]OrderPlacedLine, 0, len(o.Lines)),
	}
	if amount, err := pricing.Parse(o.Total); err == nil {
		p.TotalAmount = &amount
	}
	for _, l := range o.Lines {
		p.Lines = append(p.Lines, OrderPlacedLine{
			Name:     l.Name,
			Price:    l.Price,
			ImageURL: l.ImageURL,
			Quantity: l.Quantity,
		})
	}
	return p
}
