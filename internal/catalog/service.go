package catalog

import "context"

// Product is a purchasable item. Prices are integer minor currency units
// (cents) to avoid floating-point rounding.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	ImageURL string `json:"imageUrl"`
}

// Service serves the static product catalog. The set is fixed for the
// process lifetime; there is no persistence layer behind it.
type Service struct {
	products []Product
}

// NewService constructs a Service backed by the built-in demo catalog.
func NewService() *Service {
	return &Service{products: defaultProducts()}
}

// List returns the catalog. The result is a fresh slice on every call so
// callers cannot mutate the underlying set.
func (s *Service) List(_ context.Context) []Product {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get looks up a product by id.
func (s *Service) Get(_ context.Context, id string) (Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func defaultProducts() []Product {
	return []Product{
		{
			ID:       "product_1",
			Name:     "Premium Coffee Beans",
			Price:    1500,
			ImageURL: "https://images.unsplash.com/photo-1559056199-641a0ac8b55e?w=400",
		},
		{
			ID:       "product_2",
			Name:     "Organic Green Tea",
			Price:    1200,
			ImageURL: "https://images.unsplash.com/photo-1564890369478-c89ca6d9cde9?w=400",
		},
	}
}
