package entity

// CartLine is one normalized checkout request line. PriceID must resolve to
// a known catalog entry at checkout time; Quantity is always >= 1 after
// normalization.
type CartLine struct {
	ProductID string `json:"id"`
	PriceID   string `json:"priceId"`
	Quantity  int64  `json:"qty"`
	Size      string `json:"size"`
}
