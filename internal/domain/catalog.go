package domain

// Product is the catalog record as served by the backend.
type Product struct {
	ID          ID       `json:"id" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Price       float64  `json:"price" validate:"gte=0"`
	OldPrice    float64  `json:"old_price" validate:"gte=0"`
	Discount    float64  `json:"discount" validate:"gte=0,lte=100"`
	Stocks      int      `json:"stocks" validate:"gte=0"`
	Rating      *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	ReviewCount int      `json:"review_count" validate:"gte=0"`
	CategoryID  ID       `json:"category_id"`
	BrandID     ID       `json:"brand_id"`
	Sizes       []Size   `json:"sizes,omitempty" validate:"dive"`
	Colors      []string `json:"colors,omitempty"`
}

// RatingOrZero treats a missing rating as 0.
func (p Product) RatingOrZero() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

func (p Product) InStock() bool { return p.Stocks > 0 }

type Size struct {
	Label      string  `json:"label" validate:"required"`
	Stock      int     `json:"stock" validate:"gte=0"`
	ExtraPrice float64 `json:"extra_price" validate:"gte=0"`
}

type Category struct {
	ID    ID     `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Image string `json:"image"`
}

type Brand struct {
	ID   ID     `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
	Logo string `json:"logo"`
}

type Banner struct {
	ID    ID     `json:"id" validate:"required"`
	Title string `json:"title"`
	Image string `json:"image" validate:"required"`
	Link  string `json:"link"`
}

type CarouselSlide struct {
	ID       ID     `json:"id" validate:"required"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image" validate:"required"`
	Link     string `json:"link"`
}

type Review struct {
	ID        ID     `json:"id" validate:"required"`
	ProductID ID     `json:"product_id"`
	UserName  string `json:"user_name"`
	Rating    int    `json:"rating" validate:"gte=1,lte=5"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}
