package web

import (
	"testing"

	"imud/internal/wire"
)

func TestBroadcaster_DeliversToAllSubscribers(t *testing.T) {
	b := NewBroadcaster()
	id1, ch1 := b.Subscribe(1)
	id2, ch2 := b.Subscribe(1)
	defer b.Unsubscribe(id1)
	defer b.Unsubscribe(id2)

	want := wire.Attitude{YawRad: 1, PitchRad: 2, RollRad: 3, TemperatureC: 21}
	b.Publish(want)

	for i, ch := range []<-chan wire.Attitude{ch1, ch2} {
		select {
		case got := <-ch:
			if got != want {
				t.Fatalf("sub %d: got=%v want=%v", i, got, want)
			}
		default:
			t.Fatalf("sub %d: nothing delivered", i)
		}
	}
}

func TestBroadcaster_LateSubscriberGetsLastValue(t *testing.T) {
	b := NewBroadcaster()
	want := wire.Attitude{YawRad: 0.5, TemperatureC: 30}
	b.Publish(want)

	id, ch := b.Subscribe(1)
	defer b.Unsubscribe(id)

	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("got=%v want=%v", got, want)
		}
	default:
		t.Fatal("retained value not delivered")
	}
}

func TestBroadcaster_SlowSubscriberDropsNotBlocks(t *testing.T) {
	b := NewBroadcaster()
	id, ch := b.Subscribe(1)
	defer b.Unsubscribe(id)

	b.Publish(wire.Attitude{YawRad: 1})
	b.Publish(wire.Attitude{YawRad: 2}) // buffer full, must not block

	got := <-ch
	if got.YawRad != 1 {
		t.Fatalf("got yaw=%v want 1", got.YawRad)
	}
	select {
	case extra := <-ch:
		t.Fatalf("unexpected second delivery: %v", extra)
	default:
	}
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	id, ch := b.Subscribe(1)
	b.Unsubscribe(id)

	if _, ok := <-ch; ok {
		t.Fatal("channel still open after Unsubscribe")
	}

	// Publishing after unsubscribe must not panic.
	b.Publish(wire.Attitude{})
}
