package session

import "sync"

// Registry fans snapshot changes out to subscribers. Broadcast order is
// subscription order, and every subscriber gets its own copy of the
// snapshot. A panicking subscriber is logged and skipped so the remaining
// subscribers are still notified.
type Registry struct {
	mu     sync.Mutex
	nextID int
	order  []int
	subs   map[int]Subscriber
	logger Logger
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		subs:   make(map[int]Subscriber),
		logger: defLogger{},
	}
}

func (r *Registry) WithLogger(logger Logger) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
	return r
}

// Subscribe registers fn and immediately replays current to it, so a late
// subscriber learns the present state without waiting for the next change.
// The returned cancel func removes the subscription; calling it more than
// once is a no-op. Subscribing the same func twice registers it twice.
func (r *Registry) Subscribe(fn Subscriber, current Snapshot) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	r.order = append(r.order, id)
	r.mu.Unlock()

	r.notify(fn, current)

	var once sync.Once
	return func() {
		once.Do(func() {
			r.unsubscribe(id)
		})
	}
}

// Broadcast notifies every subscriber, in subscription order, with its own
// copy of snapshot.
func (r *Registry) Broadcast(snapshot Snapshot) {
	for _, fn := range r.snapshotSubscribers() {
		r.notify(fn, snapshot)
	}
}

// Len returns the number of active subscriptions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

func (r *Registry) unsubscribe(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.subs, id)
	for i, sid := range r.order {
		if sid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Registry) snapshotSubscribers() []Subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Subscriber, 0, len(r.order))
	for _, id := range r.order {
		if fn, ok := r.subs[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func (r *Registry) notify(fn Subscriber, snapshot Snapshot) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("subscriber panicked during notify", "panic", rec)
		}
	}()
	fn(snapshot)
}
