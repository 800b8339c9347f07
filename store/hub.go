package store

import "sync"

// Hub fans change notifications out to subscribers. Each subscription
// runs its callback on its own goroutine; notifications that arrive while
// a callback is pending are coalesced.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*Subscription
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]*Subscription)}
}

// Subscription is a registered change callback.
type Subscription struct {
	hub    *Hub
	id     int
	owner  string
	kind   Kind
	notify chan struct{}
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// Subscribe registers onChange for owner and kind.
func (h *Hub) Subscribe(owner string, kind Kind, onChange func()) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	sub := &Subscription{
		hub:    h,
		id:     h.nextID,
		owner:  owner,
		kind:   kind,
		notify: make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	h.subs[sub.id] = sub
	go sub.run(onChange)
	return sub
}

// Publish notifies subscribers of owner and kind.
func (h *Hub) Publish(owner string, kind Kind) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs {
		if sub.owner != owner || sub.kind != kind {
			continue
		}
		select {
		case sub.notify <- struct{}{}:
		default:
		}
	}
}

// PublishAll notifies every subscriber.
func (h *Hub) PublishAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs {
		select {
		case sub.notify <- struct{}{}:
		default:
		}
	}
}

// Close unsubscribes everyone.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := make([]*Subscription, 0, len(h.subs))
	for _, sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

func (s *Subscription) run(onChange func()) {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		case <-s.notify:
			select {
			case <-s.quit:
				return
			default:
			}
			onChange()
		}
	}
}

// Unsubscribe stops further callbacks. It is safe to call more than once
// and from inside the callback.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		s.hub.mu.Unlock()
		close(s.quit)
	})
}

// Done is closed once the callback goroutine has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}
