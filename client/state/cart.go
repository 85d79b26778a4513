package state

// CartItem is a single cart line.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Cart is the signed-in user's cart. The zero value is an empty cart.
type Cart struct {
	Items []CartItem `json:"items"`
}

// IsZero reports whether the cart has no lines.
func (c Cart) IsZero() bool {
	return len(c.Items) == 0
}

// Count returns the total quantity, as shown on the cart badge.
func (c Cart) Count() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Total returns the cart value.
func (c Cart) Total() float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func (c Cart) clone() Cart {
	if c.Items == nil {
		return Cart{}
	}
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
