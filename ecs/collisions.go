package ecs

// Contact describes one begin-touch between two entities, seen from Self.
// NormalX/NormalY point from Self toward Other.
type Contact struct {
	Self    Entity
	Other   Entity
	NormalX float64
	NormalY float64
}

// ContactFunc receives contacts matched by a subscription.
type ContactFunc func(Contact)

// Subscription is the cancellation handle returned by CollisionBus.Subscribe.
type Subscription struct {
	source    Entity
	target    Entity
	fn        ContactFunc
	cancelled bool
}

// Cancel stops further deliveries. It is safe to call more than once and from
// inside the subscription's own callback.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.cancelled = true
}

// Active reports whether the subscription can still receive contacts.
func (s *Subscription) Active() bool {
	return s != nil && !s.cancelled
}

func (s *Subscription) matches(c Contact) bool {
	if c.Self != s.source {
		return false
	}
	return s.target == 0 || s.target == c.Other
}

// CollisionBus buffers contacts published while the physics space is locked
// and delivers them to subscribers once Dispatch is called.
type CollisionBus struct {
	subs    []*Subscription
	pending []Contact
}

// Subscribe registers fn for contacts where source touches target. A zero
// target matches any other entity.
func (b *CollisionBus) Subscribe(source, target Entity, fn ContactFunc) *Subscription {
	sub := &Subscription{source: source, target: target, fn: fn}
	if fn == nil {
		sub.cancelled = true
		return sub
	}
	b.subs = append(b.subs, sub)
	return sub
}

// Publish queues a begin-touch between a and b for both sides of the pair.
func (b *CollisionBus) Publish(a, other Entity, nx, ny float64) {
	b.pending = append(b.pending,
		Contact{Self: a, Other: other, NormalX: nx, NormalY: ny},
		Contact{Self: other, Other: a, NormalX: -nx, NormalY: -ny},
	)
}

// Pending reports the number of queued contacts.
func (b *CollisionBus) Pending() int {
	return len(b.pending)
}

// Dispatch delivers the queued contacts. Contacts published by callbacks are
// held for the next Dispatch. The cancelled flag is checked before every call.
func (b *CollisionBus) Dispatch() {
	if len(b.pending) == 0 {
		b.compact()
		return
	}
	batch := b.pending
	b.pending = nil
	subs := append([]*Subscription(nil), b.subs...)
	for _, c := range batch {
		for _, sub := range subs {
			if sub.cancelled || !sub.matches(c) {
				continue
			}
			sub.fn(c)
		}
	}
	b.compact()
}

// Reset drops every subscription and queued contact.
func (b *CollisionBus) Reset() {
	for _, sub := range b.subs {
		sub.cancelled = true
	}
	b.subs = nil
	b.pending = nil
}

func (b *CollisionBus) compact() {
	live := b.subs[:0]
	for _, sub := range b.subs {
		if !sub.cancelled {
			live = append(live, sub)
		}
	}
	for i := len(live); i < len(b.subs); i++ {
		b.subs[i] = nil
	}
	b.subs = live
}
