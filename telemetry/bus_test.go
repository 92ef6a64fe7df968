package telemetry

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func quietBus() *Bus {
	return NewBus(BusOptions{Logger: log.New(io.Discard)})
}

type countingHandler struct {
	name string
	log  *[]string
}

func (h *countingHandler) HandleEvent(evt GameplayEvent) error {
	*h.log = append(*h.log, h.name+":"+evt.Name)
	return nil
}

func TestBusDeliversInRegistrationOrder(t *testing.T) {
	bus := quietBus()
	var calls []string
	a := &countingHandler{name: "a", log: &calls}
	b := &countingHandler{name: "b", log: &calls}
	all := &countingHandler{name: "all", log: &calls}

	bus.Subscribe("player_jumped", a)
	bus.Subscribe(AllEvents, all)
	bus.Subscribe("player_jumped", b)

	bus.Emit("player_jumped", nil)
	bus.Emit("item_collected", nil)

	want := []string{"a:player_jumped", "b:player_jumped", "all:player_jumped", "all:item_collected"}
	if len(calls) != len(want) {
		t.Fatalf("expected %v, got %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, calls)
		}
	}
}

func TestBusSubscribeIsIdempotent(t *testing.T) {
	bus := quietBus()
	var calls []string
	h := &countingHandler{name: "h", log: &calls}

	cases := []struct {
		name  string
		op    func() bool
		want  bool
		count int
	}{
		{"first_subscribe", func() bool { return bus.Subscribe("x", h) }, true, 1},
		{"duplicate_subscribe", func() bool { return bus.Subscribe("x", h) }, false, 1},
		{"unsubscribe", func() bool { return bus.Unsubscribe("x", h) }, true, 0},
		{"duplicate_unsubscribe", func() bool { return bus.Unsubscribe("x", h) }, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.op(); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			if bus.Count("x") != tc.count {
				t.Fatalf("expected %d handlers, got %d", tc.count, bus.Count("x"))
			}
		})
	}

	bus.Emit("x", nil)
	if len(calls) != 0 {
		t.Fatalf("unsubscribed handler must not run, got %v", calls)
	}
}

func TestBusIsolatesFailingHandlers(t *testing.T) {
	bus := quietBus()
	var got []string
	bus.SubscribeFunc("level_completed", func(GameplayEvent) error { return errors.New("nope") })
	bus.SubscribeFunc("level_completed", func(GameplayEvent) error { panic("boom") })
	bus.SubscribeFunc("level_completed", func(evt GameplayEvent) error {
		got = append(got, evt.Name)
		return nil
	})

	bus.Emit("level_completed", map[string]any{"score": 9})
	if len(got) != 1 {
		t.Fatalf("expected the last handler to run once, got %v", got)
	}
}

func TestSubscriptionUnsubscribe(t *testing.T) {
	bus := quietBus()
	n := 0
	sub := bus.SubscribeFunc("x", func(GameplayEvent) error { n++; return nil })
	bus.Emit("x", nil)
	sub.Unsubscribe()
	sub.Unsubscribe()
	bus.Emit("x", nil)
	if n != 1 {
		t.Fatalf("expected 1 delivery, got %d", n)
	}
}

func TestBusStampsWithClock(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	bus := NewBus(BusOptions{Logger: log.New(io.Discard), Now: func() time.Time { return at }})
	props := map[string]any{"total": 1}
	evt := bus.Emit("item_collected", props)
	props["total"] = 2

	if !evt.Timestamp.Equal(at) {
		t.Fatalf("unexpected timestamp %v", evt.Timestamp)
	}
	if evt.Prop("total") != 1 {
		t.Fatalf("event properties must be copied, got %v", evt.Prop("total"))
	}
	if evt.ID.Time() != uint64(at.UnixMilli()) {
		t.Fatalf("id time %d does not match timestamp", evt.ID.Time())
	}
}

func TestEventIDsSortInEmissionOrder(t *testing.T) {
	at := time.Now()
	prev := NewEvent("a", nil, at)
	for i := 0; i < 100; i++ {
		next := NewEvent("a", nil, at)
		if next.ID.Compare(prev.ID) <= 0 {
			t.Fatalf("ids must increase: %s then %s", prev.ID, next.ID)
		}
		prev = next
	}
}

func TestBusCloseDropsSubscribers(t *testing.T) {
	bus := quietBus()
	n := 0
	bus.SubscribeFunc("x", func(GameplayEvent) error { n++; return nil })
	bus.Close()
	bus.Emit("x", nil)
	if n != 0 || bus.Count("x") != 0 {
		t.Fatalf("closed bus must not deliver")
	}
	if bus.Subscribe("x", &countingHandler{log: new([]string)}) {
		t.Fatalf("closed bus must reject subscriptions")
	}
}

func TestBusConcurrentEmitIsSerialized(t *testing.T) {
	bus := quietBus()
	var inside, maxInside, total int
	var mu sync.Mutex
	bus.SubscribeFunc("x", func(GameplayEvent) error {
		mu.Lock()
		inside++
		if inside > maxInside {
			maxInside = inside
		}
		mu.Unlock()
		time.Sleep(time.Microsecond)
		mu.Lock()
		inside--
		total++
		mu.Unlock()
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				bus.Emit("x", nil)
			}
		}()
	}
	wg.Wait()
	if maxInside != 1 || total != 80 {
		t.Fatalf("expected serialized delivery of 80 events, max=%d total=%d", maxInside, total)
	}
}
