package services

import (
	"context"
	"sync"
	"time"

	"storefront/internal/api"
	"storefront/internal/events"
)

// Counts are the header badge numbers for one session.
type Counts struct {
	Cart     int
	Wishlist int
}

// Badges listens on the bus and re-reads counts from the backend whenever
// the cart or wishlist changes. Nothing in a notification is trusted beyond
// who it is for.
type Badges struct {
	API *api.Client

	mu     sync.Mutex
	counts map[string]*badge
	idle   time.Duration
	swept  time.Time
	now    func() time.Time
}

type badge struct {
	Counts
	seen time.Time
}

// NewBadges caches counts per session. Entries not read or written for idle
// are dropped; zero keeps them until the session ends.
func NewBadges(c *api.Client, idle time.Duration) *Badges {
	return &Badges{API: c, counts: make(map[string]*badge), idle: idle, now: time.Now}
}

// Attach subscribes to the bus and returns a func that detaches again.
func (b *Badges) Attach(bus *events.Bus) func() {
	offs := []func(){
		bus.Subscribe(events.CartChanged, b.onCart),
		bus.Subscribe(events.WishlistChanged, b.onWishlist),
		bus.Subscribe(events.SessionEnded, b.onEnded),
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

func (b *Badges) Get(sid string) Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	e := b.counts[sid]
	if e == nil {
		return Counts{}
	}
	e.seen = b.now()
	return e.Counts
}

// Known reports whether counts have been fetched for sid.
func (b *Badges) Known(sid string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.counts[sid]
	return ok
}

// Refresh fetches both counts for a session.
func (b *Badges) Refresh(ctx context.Context, sid, token string) error {
	n := events.Notification{SessionID: sid, Token: token}
	if err := b.onCart(ctx, n); err != nil {
		return err
	}
	return b.onWishlist(ctx, n)
}

func (b *Badges) onCart(ctx context.Context, n events.Notification) error {
	if n.Token == "" {
		b.update(n.SessionID, func(c *Counts) { c.Cart = 0 })
		return nil
	}
	cart, err := b.API.Cart(ctx, n.Token)
	if err != nil {
		return err
	}
	b.update(n.SessionID, func(c *Counts) { c.Cart = cart.Count() })
	return nil
}

func (b *Badges) onWishlist(ctx context.Context, n events.Notification) error {
	if n.Token == "" {
		b.update(n.SessionID, func(c *Counts) { c.Wishlist = 0 })
		return nil
	}
	items, err := b.API.Wishlist(ctx, n.Token)
	if err != nil {
		return err
	}
	b.update(n.SessionID, func(c *Counts) { c.Wishlist = len(items) })
	return nil
}

func (b *Badges) onEnded(_ context.Context, n events.Notification) error {
	b.mu.Lock()
	delete(b.counts, n.SessionID)
	b.mu.Unlock()
	return nil
}

// Len reports how many sessions have cached counts.
func (b *Badges) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.counts)
}

// Expire drops counts last touched before t and reports how many went.
func (b *Badges) Expire(t time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.expire(t)
}

func (b *Badges) expire(t time.Time) int {
	n := 0
	for sid, e := range b.counts {
		if e.seen.Before(t) {
			delete(b.counts, sid)
			n++
		}
	}
	return n
}

func (b *Badges) update(sid string, fn func(*Counts)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	if b.idle > 0 && now.Sub(b.swept) >= b.idle {
		b.expire(now.Add(-b.idle))
		b.swept = now
	}
	e := b.counts[sid]
	if e == nil {
		e = &badge{}
		b.counts[sid] = e
	}
	fn(&e.Counts)
	e.seen = now
}
