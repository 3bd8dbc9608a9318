package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"storefront/internal/api"
	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/listing"
)

// home sections are capped so the page stays short
const homeSectionSize = 8

type CatalogService struct {
	API       *api.Client
	ImageBase string
}

func NewCatalogService(c *api.Client, imageBase string) *CatalogService {
	return &CatalogService{API: c, ImageBase: imageBase}
}

// Home is the landing page. Products and categories are required; the
// decorative sections render empty when their fetch fails.
type Home struct {
	Slides     []domain.CarouselSlide
	Banners    []domain.Banner
	Categories []domain.Category
	Brands     []domain.Brand
	Products   *listing.Page
	Deals      []domain.Product
	TopRated   []domain.Product
}

func (s *CatalogService) Home(ctx context.Context) (*Home, error) {
	h := &Home{Products: listing.New("Featured Products", s.API.Products)}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if h.Products.Load(gctx) == listing.Failed {
			return h.Products.Err()
		}
		return nil
	})
	g.Go(func() error {
		cats, err := s.API.Categories(gctx)
		h.Categories = cats
		return err
	})
	g.Go(func() error {
		h.Slides, _ = s.API.Carousel(gctx)
		return nil
	})
	g.Go(func() error {
		h.Banners, _ = s.API.Banners(gctx)
		return nil
	})
	g.Go(func() error {
		h.Brands, _ = s.API.Brands(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := h.Products.All()
	for _, p := range all {
		if p.OldPrice > p.Price && len(h.Deals) < homeSectionSize {
			h.Deals = append(h.Deals, p)
		}
	}
	h.TopRated = head(catalog.Filter(all, catalog.Criteria{MinRating: 4, Sort: catalog.SortRating}), homeSectionSize)
	return h, nil
}

func head(ps []domain.Product, n int) []domain.Product {
	if len(ps) > n {
		return ps[:n]
	}
	return ps
}

func (s *CatalogService) AllProducts() *listing.Page {
	return listing.New("All Products", s.API.Products)
}

// CategoryPage titles the page with the category's name when it can be found.
func (s *CatalogService) CategoryPage(ctx context.Context, id string) *listing.Page {
	title := "Category"
	if cats, err := s.API.Categories(ctx); err == nil {
		for _, c := range cats {
			if c.ID.String() == id {
				title = c.Name
				break
			}
		}
	}
	return listing.New(title, func(ctx context.Context) ([]domain.Product, error) {
		return s.API.ProductsByCategory(ctx, id)
	})
}

func (s *CatalogService) BrandPage(ctx context.Context, id string) *listing.Page {
	title := "Brand"
	if brands, err := s.API.Brands(ctx); err == nil {
		for _, b := range brands {
			if b.ID.String() == id {
				title = b.Name
				break
			}
		}
	}
	return listing.New(title, func(ctx context.Context) ([]domain.Product, error) {
		return s.API.ProductsByBrand(ctx, id)
	})
}

func (s *CatalogService) SearchPage(q string) *listing.Page {
	return listing.New(`Results for "`+q+`"`, func(ctx context.Context) ([]domain.Product, error) {
		return s.API.SearchProducts(ctx, q)
	})
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.API.Categories(ctx)
}

func (s *CatalogService) Brands(ctx context.Context) ([]domain.Brand, error) {
	return s.API.Brands(ctx)
}

// ProductDetail is the product page: record, selection state and reviews.
type ProductDetail struct {
	Product   domain.Product
	Image     string
	Stock     catalog.StockState
	Selection *catalog.Selection
	Reviews   []domain.Review
}

func (s *CatalogService) Product(ctx context.Context, id string) (*ProductDetail, error) {
	p, err := s.API.Product(ctx, id)
	if err != nil {
		return nil, err
	}
	// reviews are secondary; a failure leaves the list empty
	reviews, _ := s.API.Reviews(ctx, id)
	return &ProductDetail{
		Product:   p,
		Image:     catalog.ImageURL(s.ImageBase, p.Image),
		Stock:     catalog.StockStateOf(p.Stocks),
		Selection: catalog.NewSelection(p),
		Reviews:   reviews,
	}, nil
}

// Suggest backs the live search box.
func (s *CatalogService) Suggest(ctx context.Context, q string, limit int) ([]catalog.Card, error) {
	ps, err := s.API.SearchProducts(ctx, q)
	if err != nil {
		return nil, err
	}
	if limit > 0 {
		ps = head(ps, limit)
	}
	return catalog.Cards(ps, s.ImageBase, catalog.VariantRow, nil), nil
}

func (s *CatalogService) Cards(ps []domain.Product, v catalog.Variant, wishlisted map[domain.ID]bool) []catalog.Card {
	return catalog.Cards(ps, s.ImageBase, v, wishlisted)
}
