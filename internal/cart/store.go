// Package cart holds the process-wide shopping cart.
package cart

import (
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/observer"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/pricing"
)

// Line is one distinct product in the cart.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
	Selected bool            `json:"selected"`
}

// Store is the observable cart. Lines are identified by their product value,
// so a Line returned by Lines can be passed back to any mutation.
//
// Store is not safe for concurrent use. Every mutation notifies all observers
// synchronously before returning.
type Store struct {
	lines     []*Line
	observers observer.Registry
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Subscribe(o observer.Observer) observer.Subscription {
	return s.observers.Subscribe(o)
}

func (s *Store) Unsubscribe(o observer.Observer) {
	s.observers.Unsubscribe(o)
}

// Subscribers reports how many observers are currently attached.
func (s *Store) Subscribers() int {
	return s.observers.Len()
}

// AddProduct merges quantity into the line for p, or appends a new selected
// line. Non-positive quantities are ignored and do not notify.
func (s *Store) AddProduct(p catalog.Product, quantity int) {
	if quantity < 1 {
		return
	}
	if l := s.find(p); l != nil {
		l.Quantity += quantity
	} else {
		s.lines = append(s.lines, &Line{Product: p, Quantity: quantity, Selected: true})
	}
	s.observers.Notify()
}

// RemoveLine drops the line for line.Product. Observers are notified even when
// no such line exists.
func (s *Store) RemoveLine(line Line) {
	s.remove(line.Product)
	s.observers.Notify()
}

// UpdateQuantity sets the quantity of the line, or removes it when quantity
// is not positive.
func (s *Store) UpdateQuantity(line Line, quantity int) {
	if quantity > 0 {
		if l := s.find(line.Product); l != nil {
			l.Quantity = quantity
		}
	} else {
		s.remove(line.Product)
	}
	s.observers.Notify()
}

func (s *Store) ToggleSelected(line Line) {
	if l := s.find(line.Product); l != nil {
		l.Selected = !l.Selected
	}
	s.observers.Notify()
}

func (s *Store) Clear() {
	s.lines = nil
	s.observers.Notify()
}

// Lines returns a copy of the cart in insertion order.
func (s *Store) Lines() []Line {
	out := make([]Line, 0, len(s.lines))
	for _, l := range s.lines {
		out = append(out, *l)
	}
	return out
}

// SelectedLines returns a copy of the selected lines in insertion order.
func (s *Store) SelectedLines() []Line {
	out := make([]Line, 0, len(s.lines))
	for _, l := range s.lines {
		if l.Selected {
			out = append(out, *l)
		}
	}
	return out
}

func (s *Store) SelectedLineCount() int {
	n := 0
	for _, l := range s.lines {
		if l.Selected {
			n++
		}
	}
	return n
}

// TotalItemCount sums quantities over every line, selected or not.
func (s *Store) TotalItemCount() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// SelectedTotal sums price × quantity over selected lines. Lines whose price
// cannot be parsed are reported in Unpriced and otherwise ignored.
func (s *Store) SelectedTotal() Total {
	selected := s.SelectedLines()
	entries := make([]pricing.Entry, 0, len(selected))
	for _, l := range selected {
		entries = append(entries, pricing.Entry{Price: l.Product.Price, Quantity: l.Quantity})
	}
	sum := pricing.Sum(entries)

	t := Total{Summary: sum}
	for _, i := range sum.Skipped {
		t.Unpriced = append(t.Unpriced, selected[i])
	}
	return t
}

func (s *Store) SelectedTotalFormatted() string {
	return s.SelectedTotal().Formatted
}

// Total is the selected-lines total together with the lines left out of it.
type Total struct {
	pricing.Summary
	Unpriced []Line
}

func (s *Store) find(p catalog.Product) *Line {
	for _, l := range s.lines {
		if l.Product == p {
			return l
		}
	}
	return nil
}

func (s *Store) remove(p catalog.Product) {
	for i, l := range s.lines {
		if l.Product == p {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return
		}
	}
}
