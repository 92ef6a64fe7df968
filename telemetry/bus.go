package telemetry

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// AllEvents subscribes a handler to every event name. Such handlers run after
// the handlers registered for the specific name.
const AllEvents = "*"

// Handler receives events from the bus. A returned error is logged and does
// not stop delivery to other handlers.
type Handler interface {
	HandleEvent(evt GameplayEvent) error
}

// HandlerFunc adapts a function to Handler. Functions are not comparable, so
// subscribe them with SubscribeFunc and keep the returned Subscription.
type HandlerFunc func(evt GameplayEvent) error

func (f HandlerFunc) HandleEvent(evt GameplayEvent) error {
	return f(evt)
}

// Subscription removes a SubscribeFunc registration.
type Subscription struct {
	bus     *Bus
	name    string
	handler *funcHandler
}

type funcHandler struct{ fn HandlerFunc }

func (h *funcHandler) HandleEvent(evt GameplayEvent) error {
	return h.fn(evt)
}

// Unsubscribe is idempotent.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.Unsubscribe(s.name, s.handler)
}

type BusOptions struct {
	Logger *log.Logger
	// Now stamps events created by Emit. Defaults to time.Now.
	Now func() time.Time
}

// Bus is a synchronous publish/subscribe channel. Emission is serialized;
// handlers for one name run in registration order before Emit returns.
// Handlers must not emit on the same bus from inside HandleEvent.
type Bus struct {
	logger *log.Logger
	now    func() time.Time

	emitMu sync.Mutex

	mu       sync.RWMutex
	handlers map[string][]Handler
	closed   bool
}

func NewBus(opts BusOptions) *Bus {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Bus{logger: logger, now: now, handlers: make(map[string][]Handler)}
}

// Subscribe registers h for name. Subscribing the same (name, handler) pair
// twice is a no-op and returns false.
func (b *Bus) Subscribe(name string, h Handler) bool {
	if b == nil || name == "" || h == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	for _, existing := range b.handlers[name] {
		if sameHandler(existing, h) {
			return false
		}
	}
	b.handlers[name] = append(b.handlers[name], h)
	return true
}

// SubscribeFunc registers fn for name.
func (b *Bus) SubscribeFunc(name string, fn HandlerFunc) *Subscription {
	if b == nil || fn == nil {
		return nil
	}
	h := &funcHandler{fn: fn}
	if !b.Subscribe(name, h) {
		return nil
	}
	return &Subscription{bus: b, name: name, handler: h}
}

// Unsubscribe removes h from name. Returns false if it was not registered.
func (b *Bus) Unsubscribe(name string, h Handler) bool {
	if b == nil || h == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.handlers[name]
	for i, existing := range list {
		if !sameHandler(existing, h) {
			continue
		}
		next := make([]Handler, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(b.handlers, name)
		} else {
			b.handlers[name] = next
		}
		return true
	}
	return false
}

// Count returns the number of handlers registered for name.
func (b *Bus) Count(name string) int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[name])
}

// Emit stamps and dispatches a new event.
func (b *Bus) Emit(name string, props map[string]any) GameplayEvent {
	if b == nil {
		return NewEvent(name, props, time.Now())
	}
	evt := NewEvent(name, props, b.now())
	b.Dispatch(evt)
	return evt
}

// Dispatch delivers an already stamped event.
func (b *Bus) Dispatch(evt GameplayEvent) {
	if b == nil || evt.Name == "" {
		return
	}
	b.emitMu.Lock()
	defer b.emitMu.Unlock()

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	targets := make([]Handler, 0, len(b.handlers[evt.Name])+len(b.handlers[AllEvents]))
	targets = append(targets, b.handlers[evt.Name]...)
	if evt.Name != AllEvents {
		targets = append(targets, b.handlers[AllEvents]...)
	}
	b.mu.RUnlock()

	for _, h := range targets {
		if err := b.deliver(h, evt); err != nil {
			b.logger.Warn("event handler failed", "event", evt.Name, "error", err)
		}
	}
}

// DispatchAll delivers events in order.
func (b *Bus) DispatchAll(events []GameplayEvent) {
	for _, evt := range events {
		b.Dispatch(evt)
	}
}

func (b *Bus) deliver(h Handler, evt GameplayEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("telemetry: handler panic: %v", r)
		}
	}()
	return h.HandleEvent(evt)
}

// Clear drops every subscription but leaves the bus usable.
func (b *Bus) Clear() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[string][]Handler)
}

// Close drops every subscription; later emits are ignored.
func (b *Bus) Close() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[string][]Handler)
	b.closed = true
}

func sameHandler(a, b Handler) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
