package services

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"storefront/internal/api"
	"storefront/internal/domain"
	"storefront/internal/session"
	"storefront/internal/validate"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindMoney
	kindInt
	kindPercent
	kindCode
	kindEnum
	kindDate
)

// Field is one input of an admin create form.
type Field struct {
	Name     string
	Label    string
	Required bool
	Options  []string
	kind     fieldKind
}

func (f Field) Input() string {
	switch f.kind {
	case kindMoney, kindInt, kindPercent:
		return "number"
	case kindEnum:
		return "select"
	case kindDate:
		return "date"
	}
	return "text"
}

// Resource describes an admin-managed collection.
type Resource struct {
	Name   string
	Title  string
	Fields []Field
}

// Resources lists the collections with list/create/delete screens.
var Resources = []Resource{
	{Name: api.ResourceCategories, Title: "Categories", Fields: []Field{
		{Name: "name", Label: "Name", Required: true},
		{Name: "image", Label: "Image URL"},
	}},
	{Name: api.ResourceBrands, Title: "Brands", Fields: []Field{
		{Name: "name", Label: "Name", Required: true},
		{Name: "logo", Label: "Logo URL"},
	}},
	{Name: api.ResourceBanners, Title: "Banners", Fields: []Field{
		{Name: "title", Label: "Title"},
		{Name: "image", Label: "Image URL", Required: true},
		{Name: "link", Label: "Link"},
	}},
	{Name: api.ResourceCarousel, Title: "Carousel", Fields: []Field{
		{Name: "title", Label: "Title"},
		{Name: "subtitle", Label: "Subtitle"},
		{Name: "image", Label: "Image URL", Required: true},
		{Name: "link", Label: "Link"},
	}},
	{Name: api.ResourceCoupons, Title: "Coupons", Fields: []Field{
		{Name: "code", Label: "Code", Required: true, kind: kindCode},
		{Name: "discount_type", Label: "Type", Required: true, kind: kindEnum, Options: []string{domain.CouponPercentage, domain.CouponFixed}},
		{Name: "discount_value", Label: "Value", Required: true, kind: kindMoney},
		{Name: "min_order_amount", Label: "Minimum order", kind: kindMoney},
		{Name: "max_discount", Label: "Maximum discount", kind: kindMoney},
		{Name: "usage_limit", Label: "Usage limit", kind: kindInt},
		{Name: "expires_at", Label: "Expires", kind: kindDate},
	}},
	{Name: api.ResourceProducts, Title: "Products", Fields: []Field{
		{Name: "title", Label: "Title", Required: true},
		{Name: "description", Label: "Description"},
		{Name: "price", Label: "Price", Required: true, kind: kindMoney},
		{Name: "old_price", Label: "Old price", kind: kindMoney},
		{Name: "discount", Label: "Discount %", kind: kindPercent},
		{Name: "stocks", Label: "Stock", Required: true, kind: kindInt},
		{Name: "category_id", Label: "Category ID"},
		{Name: "brand_id", Label: "Brand ID"},
		{Name: "image", Label: "Image URL"},
	}},
}

func LookupResource(name string) (Resource, bool) {
	for _, r := range Resources {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}

// Payload validates form values against the resource's fields and builds
// the JSON body for the create call.
func (r Resource) Payload(get func(string) string) (map[string]any, error) {
	out := map[string]any{}
	fe := validate.Errors{}
	for _, f := range r.Fields {
		raw := strings.TrimSpace(get(f.Name))
		if raw == "" {
			if f.Required {
				fe.Add(f.Name, f.Label+" is required")
			}
			continue
		}
		switch f.kind {
		case kindMoney, kindPercent:
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v < 0 || (f.kind == kindPercent && v > 100) {
				fe.Add(f.Name, f.Label+" must be a valid amount")
				continue
			}
			out[f.Name] = v
		case kindInt:
			v, err := strconv.Atoi(raw)
			if err != nil || v < 0 {
				fe.Add(f.Name, f.Label+" must be a whole number")
				continue
			}
			out[f.Name] = v
		case kindCode:
			v, ok := validate.Coupon(raw)
			if !ok {
				fe.Add(f.Name, f.Label+" must be 3 to 32 letters or digits")
				continue
			}
			out[f.Name] = v
		case kindEnum:
			if !slices.Contains(f.Options, raw) {
				fe.Add(f.Name, f.Label+" is not a valid choice")
				continue
			}
			out[f.Name] = raw
		default:
			v, ok := validate.Text(raw, 500)
			if !ok {
				fe.Add(f.Name, f.Label+" is too long")
				continue
			}
			out[f.Name] = v
		}
	}
	if r.Name == api.ResourceCoupons && out["discount_type"] == domain.CouponPercentage {
		if v, _ := out["discount_value"].(float64); v > 100 {
			fe.Add("discount_value", "A percentage cannot exceed 100")
		}
	}
	return out, formErr(fe)
}

type AdminService struct {
	API *api.Client
}

func NewAdminService(c *api.Client) *AdminService { return &AdminService{API: c} }

func (s *AdminService) Dashboard(ctx context.Context, sess *session.Session) (api.DashboardStats, error) {
	tok, err := adminToken(sess)
	if err != nil {
		return api.DashboardStats{}, err
	}
	return s.API.Dashboard(ctx, tok)
}

// Row is a resource entry flattened for the generic admin table.
type Row struct {
	ID    string
	Cells []string
}

// List returns the rows of a resource in column order of its fields.
func (s *AdminService) List(ctx context.Context, sess *session.Session, r Resource) ([]Row, error) {
	tok, err := adminToken(sess)
	if err != nil {
		return nil, err
	}
	var rows []Row
	switch r.Name {
	case api.ResourceCategories:
		items, err := api.AdminList[domain.Category](ctx, s.API, tok, r.Name)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			rows = append(rows, Row{ID: it.ID.String(), Cells: []string{it.Name, it.Image}})
		}
	case api.ResourceBrands:
		items, err := api.AdminList[domain.Brand](ctx, s.API, tok, r.Name)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			rows = append(rows, Row{ID: it.ID.String(), Cells: []string{it.Name, it.Logo}})
		}
	case api.ResourceBanners:
		items, err := api.AdminList[domain.Banner](ctx, s.API, tok, r.Name)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			rows = append(rows, Row{ID: it.ID.String(), Cells: []string{it.Title, it.Image, it.Link}})
		}
	case api.ResourceCarousel:
		items, err := api.AdminList[domain.CarouselSlide](ctx, s.API, tok, r.Name)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			rows = append(rows, Row{ID: it.ID.String(), Cells: []string{it.Title, it.Subtitle, it.Image, it.Link}})
		}
	case api.ResourceCoupons:
		items, err := api.AdminList[domain.Coupon](ctx, s.API, tok, r.Name)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			rows = append(rows, Row{ID: it.ID.String(), Cells: []string{
				it.Code, it.Type, strconv.FormatFloat(it.Value, 'f', -1, 64),
				domain.Money(it.MinOrderAmount), domain.Money(it.MaxDiscount),
				strconv.Itoa(it.UsageLimit), it.ExpiresAt,
			}})
		}
	case api.ResourceProducts:
		items, err := api.AdminList[domain.Product](ctx, s.API, tok, r.Name)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			rows = append(rows, Row{ID: it.ID.String(), Cells: []string{
				it.Title, it.Description, domain.Money(it.Price), domain.Money(it.OldPrice),
				strconv.FormatFloat(it.Discount, 'f', -1, 64), strconv.Itoa(it.Stocks),
				it.CategoryID.String(), it.BrandID.String(), it.Image,
			}})
		}
	default:
		return nil, fmt.Errorf("admin: unknown resource %q", r.Name)
	}
	return rows, nil
}

func (s *AdminService) Create(ctx context.Context, sess *session.Session, r Resource, get func(string) string) error {
	tok, err := adminToken(sess)
	if err != nil {
		return err
	}
	body, err := r.Payload(get)
	if err != nil {
		return err
	}
	return s.API.AdminCreate(ctx, tok, r.Name, body)
}

func (s *AdminService) Delete(ctx context.Context, sess *session.Session, resource, id string) error {
	tok, err := adminToken(sess)
	if err != nil {
		return err
	}
	id, ok := validate.ID(id)
	if !ok {
		return fmt.Errorf("admin: invalid id")
	}
	return s.API.AdminDelete(ctx, tok, resource, id)
}

func (s *AdminService) Orders(ctx context.Context, sess *session.Session) ([]domain.Order, error) {
	tok, err := adminToken(sess)
	if err != nil {
		return nil, err
	}
	return s.API.AdminOrders(ctx, tok)
}

func (s *AdminService) SetOrderStatus(ctx context.Context, sess *session.Session, orderID, status string) error {
	tok, err := adminToken(sess)
	if err != nil {
		return err
	}
	if !slices.Contains(domain.OrderStatuses, status) {
		return &FormError{Fields: validate.Errors{"status": "Unknown order status"}}
	}
	return s.API.UpdateOrderStatus(ctx, tok, orderID, status)
}

func (s *AdminService) Users(ctx context.Context, sess *session.Session) ([]domain.User, error) {
	tok, err := adminToken(sess)
	if err != nil {
		return nil, err
	}
	return s.API.AdminUsers(ctx, tok)
}

func (s *AdminService) SetBlocked(ctx context.Context, sess *session.Session, userID string, blocked bool) error {
	tok, err := adminToken(sess)
	if err != nil {
		return err
	}
	return s.API.SetUserBlocked(ctx, tok, userID, blocked)
}

func (s *AdminService) DeleteUser(ctx context.Context, sess *session.Session, userID string) error {
	return s.Delete(ctx, sess, api.ResourceUsers, userID)
}
