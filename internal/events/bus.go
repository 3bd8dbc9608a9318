// Package events is an in-process publish/subscribe channel used to tell
// independent parts of the storefront that something changed, so that each
// can re-read its own state from the backend.
package events

import (
	"context"
	"fmt"
	"sync"
)

type Topic string

const (
	CartChanged     Topic = "cart.changed"
	WishlistChanged Topic = "wishlist.changed"
	SessionEnded    Topic = "session.ended"
)

// Notification carries routing context only: who it concerns and the
// credential a listener needs to re-fetch. It never carries the new state.
type Notification struct {
	Topic     Topic
	SessionID string
	Token     string
}

type Handler func(ctx context.Context, n Notification) error

// ErrorFunc receives subscriber failures; publishing never fails.
type ErrorFunc func(n Notification, err error)

type subscriber struct {
	id int
	fn Handler
}

type Bus struct {
	mu      sync.RWMutex
	nextID  int
	subs    map[Topic][]subscriber
	onError ErrorFunc
}

func NewBus(onError ErrorFunc) *Bus {
	if onError == nil {
		onError = func(Notification, error) {}
	}
	return &Bus{subs: make(map[Topic][]subscriber), onError: onError}
}

// Subscribe registers fn for topic and returns its unsubscribe func.
func (b *Bus) Subscribe(topic Topic, fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(topic, id) })
	}
}

func (b *Bus) remove(topic Topic, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[topic]
	for i, s := range list {
		if s.id == id {
			b.subs[topic] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Publish delivers n to every current subscriber of n.Topic, in
// subscription order, on the caller's goroutine. A failing or panicking
// subscriber is reported to the ErrorFunc and does not stop the others.
func (b *Bus) Publish(ctx context.Context, n Notification) {
	b.mu.RLock()
	list := append([]subscriber(nil), b.subs[n.Topic]...)
	b.mu.RUnlock()

	for _, s := range list {
		if err := deliver(ctx, s.fn, n); err != nil {
			b.onError(n, err)
		}
	}
}

func deliver(ctx context.Context, fn Handler, n Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("events: subscriber panic on %s: %v", n.Topic, r)
		}
	}()
	return fn(ctx, n)
}

// Subscribers reports how many handlers listen on topic.
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
