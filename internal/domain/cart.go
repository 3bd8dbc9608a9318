package domain

type CartItem struct {
	ID            ID       `json:"id" validate:"required"`
	ProductID     ID       `json:"product_id" validate:"required"`
	Product       *Product `json:"product,omitempty"`
	Title         string   `json:"title"`
	Image         string   `json:"image"`
	Quantity      int      `json:"quantity" validate:"gte=1"`
	SelectedSize  string   `json:"selected_size,omitempty"`
	SelectedColor string   `json:"selected_color,omitempty"`
	Price         float64  `json:"price" validate:"gte=0"`
	Stocks        int      `json:"stocks" validate:"gte=0"`
}

// DisplayTitle prefers the embedded product title over the snapshot.
func (it CartItem) DisplayTitle() string {
	if it.Product != nil && it.Product.Title != "" {
		return it.Product.Title
	}
	return it.Title
}

func (it CartItem) LineTotal() float64 { return it.Price * float64(it.Quantity) }

type Cart struct {
	Items []CartItem `json:"items" validate:"dive"`
}

func (c Cart) Subtotal() float64 {
	total := 0.0
	for _, it := range c.Items {
		total += it.LineTotal()
	}
	return total
}

// Count is the badge number: total quantity across lines.
func (c Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

type WishlistItem struct {
	ID        ID       `json:"id" validate:"required"`
	ProductID ID       `json:"product_id" validate:"required"`
	Product   *Product `json:"product,omitempty"`
}
