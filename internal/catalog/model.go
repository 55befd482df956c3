package catalog

// Product is an immutable catalog value. Two products with identical fields
// are the same product.
type Product struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	ImageURL string `json:"imageUrl"`
	Category string `json:"category"`
}

func (p Product) FilterName() string     { return p.Name }
func (p Product) FilterCategory() string { return p.Category }

// Store is a storefront listed in the catalog. Segment plays the role of the
// category when filtering stores.
type Store struct {
	Name     string    `json:"name"`
	Segment  string    `json:"segment"`
	ImageURL string    `json:"imageUrl"`
	Products []Product `json:"products,omitempty"`
}

func (s Store) FilterName() string     { return s.Name }
func (s Store) FilterCategory() string { return s.Segment }
