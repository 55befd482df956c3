package order

import "time"

// Line is a frozen copy of a cart line taken at checkout.
type Line struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	ImageURL string `json:"imageUrl"`
	Quantity int    `json:"quantity"`
}

// Order is immutable once created. Total is already formatted for display.
type Order struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Status    Status    `json:"status"`
	Total     string    `json:"total"`
	Lines     []Line    `json:"lines"`
}

const timestampLayout = "02/01/2006, 15:04:05"

// FormatTimestamp renders t the way orders are shown to customers,
// e.g. "07/03/2025, 14:05:09".
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

func (o Order) clone() Order {
	o.Lines = append([]Line(nil), o.Lines...)
	return o
}
