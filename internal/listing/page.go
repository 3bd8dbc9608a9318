// Package listing holds the state of a product listing page: what was
// fetched, whether the fetch worked, and the filtered view derived from it.
package listing

import (
	"context"
	"errors"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

type State string

const (
	Loading State = "loading"
	Ready   State = "ready"
	Failed  State = "error"
)

// FetchFunc loads the full product list for a page.
type FetchFunc func(ctx context.Context) ([]domain.Product, error)

// ErrNotReady is returned by Apply before a successful Load.
var ErrNotReady = errors.New("listing: page has no data")

// Page is not safe for concurrent use; each request owns its own Page.
type Page struct {
	Title    string
	state    State
	fetch    FetchFunc
	all      []domain.Product
	view     []domain.Product
	criteria catalog.Criteria
	err      error
}

func New(title string, fetch FetchFunc) *Page {
	return &Page{Title: title, state: Loading, fetch: fetch, criteria: catalog.DefaultCriteria()}
}

func (p *Page) State() State { return p.state }
func (p *Page) Err() error   { return p.err }

// Load fetches once and moves to Ready or Failed.
func (p *Page) Load(ctx context.Context) State {
	p.state = Loading
	all, err := p.fetch(ctx)
	if err != nil {
		p.state, p.err = Failed, err
		p.all, p.view = nil, nil
		return p.state
	}
	p.state, p.err = Ready, nil
	p.all = all
	p.view = catalog.Filter(p.all, p.criteria)
	return p.state
}

// Reload is an explicit re-fetch, e.g. when the route's category changes.
func (p *Page) Reload(ctx context.Context, fetch FetchFunc) State {
	if fetch != nil {
		p.fetch = fetch
	}
	return p.Load(ctx)
}

// SetCriteria sets the filters the next Load applies.
func (p *Page) SetCriteria(c catalog.Criteria) { p.criteria = c }

// Apply recomputes the view from the already fetched list. No network.
func (p *Page) Apply(c catalog.Criteria) error {
	p.criteria = c
	if p.state != Ready {
		return ErrNotReady
	}
	p.view = catalog.Filter(p.all, c)
	return nil
}

func (p *Page) Criteria() catalog.Criteria { return p.criteria }
func (p *Page) All() []domain.Product      { return p.all }
func (p *Page) View() []domain.Product     { return p.view }

// Empty is true when the page loaded but nothing survives the filters.
func (p *Page) Empty() bool { return p.state == Ready && len(p.view) == 0 }

// PriceBounds reports the min and max price of the fetched list, used to
// seed the price range inputs.
func (p *Page) PriceBounds() (min, max float64) {
	for i, pr := range p.all {
		if i == 0 || pr.Price < min {
			min = pr.Price
		}
		if pr.Price > max {
			max = pr.Price
		}
	}
	return min, max
}
