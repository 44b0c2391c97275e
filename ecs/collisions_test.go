package ecs

import "testing"

func TestCollisionBusMatching(t *testing.T) {
	w := NewWorld()
	player := CreateEntity(w)
	sensor := CreateEntity(w)
	crate := CreateEntity(w)

	tests := []struct {
		name   string
		source Entity
		target Entity
		a, b   Entity
		want   int
	}{
		{"any_target", player, 0, player, crate, 1},
		{"specific_target_hit", player, sensor, sensor, player, 1},
		{"specific_target_miss", player, sensor, player, crate, 0},
		{"unrelated_pair", player, 0, sensor, crate, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bus := &CollisionBus{}
			hits := 0
			bus.Subscribe(tc.source, tc.target, func(c Contact) {
				if c.Self != tc.source {
					t.Fatalf("contact delivered from the wrong side: %+v", c)
				}
				hits++
			})
			bus.Publish(tc.a, tc.b, 0, 1)
			bus.Dispatch()
			if hits != tc.want {
				t.Fatalf("expected %d hits, got %d", tc.want, hits)
			}
		})
	}
}

func TestCollisionBusCancelInsideCallback(t *testing.T) {
	w := NewWorld()
	player := CreateEntity(w)
	tile := CreateEntity(w)

	bus := w.Collisions()
	calls := 0
	var sub *Subscription
	sub = bus.Subscribe(player, 0, func(Contact) {
		calls++
		sub.Cancel()
		sub.Cancel()
	})

	bus.Publish(player, tile, 0, 1)
	bus.Publish(player, tile, 1, 0)
	bus.Dispatch()
	bus.Publish(player, tile, 0, 1)
	bus.Dispatch()

	if calls != 1 {
		t.Fatalf("expected exactly one delivery, got %d", calls)
	}
	if sub.Active() {
		t.Fatalf("subscription should be inactive")
	}
}

func TestCollisionBusDefersPublishesFromCallbacks(t *testing.T) {
	w := NewWorld()
	a := CreateEntity(w)
	b := CreateEntity(w)

	bus := w.Collisions()
	calls := 0
	bus.Subscribe(a, 0, func(Contact) {
		calls++
		bus.Publish(a, b, 0, 1)
	})

	bus.Publish(a, b, 0, 1)
	bus.Dispatch()
	if calls != 1 {
		t.Fatalf("expected 1 call in first dispatch, got %d", calls)
	}
	if bus.Pending() != 2 {
		t.Fatalf("expected the re-published pair to be queued, got %d", bus.Pending())
	}
	bus.Dispatch()
	if calls != 2 {
		t.Fatalf("expected 2 calls after second dispatch, got %d", calls)
	}
}

func TestCollisionBusReset(t *testing.T) {
	w := NewWorld()
	a := CreateEntity(w)
	b := CreateEntity(w)

	bus := w.Collisions()
	sub := bus.Subscribe(a, 0, func(Contact) { t.Fatalf("reset subscription fired") })
	bus.Publish(a, b, 0, 1)
	bus.Reset()
	bus.Dispatch()
	if sub.Active() {
		t.Fatalf("reset should cancel subscriptions")
	}
}
