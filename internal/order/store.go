package order

import "github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/observer"

// Store is the in-process mirror of finalized orders, newest first.
// Like cart.Store it is not safe for concurrent use.
type Store struct {
	orders    []Order
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

// Add prepends o and notifies observers.
func (s *Store) Add(o Order) {
	s.orders = append([]Order{o.clone()}, s.orders...)
	s.observers.Notify()
}

// List returns a copy of all orders, most recent first.
func (s *Store) List() []Order {
	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o.clone())
	}
	return out
}

func (s *Store) FindByID(id string) (Order, bool) {
	for _, o := range s.orders {
		if o.ID == id {
			return o.clone(), true
		}
	}
	return Order{}, false
}

func (s *Store) Len() int {
	return len(s.orders)
}
