package domain

type Address struct {
	ID      ID     `json:"id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Line1   string `json:"line1" validate:"required"`
	Line2   string `json:"line2"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state"`
	Pincode string `json:"pincode" validate:"required"`
	Default bool   `json:"is_default"`
}

// NewAddress is the create payload.
type NewAddress struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode"`
}

type OrderItem struct {
	ProductID     ID      `json:"product_id"`
	Title         string  `json:"title"`
	Quantity      int     `json:"quantity" validate:"gte=1"`
	Price         float64 `json:"price" validate:"gte=0"`
	SelectedSize  string  `json:"selected_size,omitempty"`
	SelectedColor string  `json:"selected_color,omitempty"`
}

type Order struct {
	ID            ID          `json:"id" validate:"required"`
	Status        string      `json:"status" validate:"required"`
	Items         []OrderItem `json:"items" validate:"dive"`
	Subtotal      float64     `json:"subtotal"`
	Discount      float64     `json:"discount"`
	Total         float64     `json:"total" validate:"gte=0"`
	CouponCode    string      `json:"coupon_code,omitempty"`
	PaymentMethod string      `json:"payment_method"`
	Address       *Address    `json:"address,omitempty"`
	UserID        ID          `json:"user_id"`
	CreatedAt     string      `json:"created_at"`
}

// PlaceOrder is the checkout payload.
type PlaceOrder struct {
	AddressID     ID     `json:"address_id"`
	CouponCode    string `json:"coupon_code,omitempty"`
	PaymentMethod string `json:"payment_method"`
}

// Order statuses the admin console can set.
var OrderStatuses = []string{"pending", "confirmed", "shipped", "delivered", "cancelled"}
