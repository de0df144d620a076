package entity

// Product is one catalog entry. Inventory is tracked per size; InStock is
// derived, never set independently: it must equal "any size has stock left".
type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	PriceID     string         `json:"priceId"`
	Images      []string       `json:"images"`
	Sizes       []string       `json:"sizes"`
	Inventory   map[string]int `json:"inventory"`
	InStock     bool           `json:"inStock"`
}

// RecomputeInStock re-derives the InStock flag from the inventory map.
func (p *Product) RecomputeInStock() {
	p.InStock = false
	for _, n := range p.Inventory {
		if n > 0 {
			p.InStock = true

			return
		}
	}
}

// Available returns the remaining stock for a size, zero when untracked.
func (p *Product) Available(size string) int {
	if p.Inventory == nil {
		return 0
	}

	return p.Inventory[size]
}
