package session

import "sync"

// Route describes a navigation target. RequiresAuth mirrors the route
// metadata the navigation layer attaches to protected destinations.
type Route struct {
	Path         string
	RequiresAuth bool
}

// Routes is an ordered route table.
type Routes []Route

// Resolve returns the route registered for path.
func (r Routes) Resolve(path string) (Route, bool) {
	for _, route := range r {
		if route.Path == path {
			return route, true
		}
	}
	return Route{}, false
}

// Decision is the guard's verdict for a single navigation attempt.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// SnapshotSource is the slice of the Manager the guard depends on.
type SnapshotSource interface {
	Subscribe(fn Subscriber) func()
}

// Guard gates navigation on the authenticated-session state. It is a
// long-lived subscriber: it tracks the most recently broadcast snapshot and
// decides synchronously per navigation attempt, so the very first
// navigation gets a correct answer even before any auth operation ran.
type Guard struct {
	mu        sync.RWMutex
	current   Snapshot
	loginPath string
	cancel    func()
}

// NewGuard subscribes a guard to source. Navigation to a route that
// requires authentication redirects to loginPath while no session is
// active.
func NewGuard(source SnapshotSource, loginPath string) *Guard {
	g := &Guard{loginPath: loginPath}
	g.cancel = source.Subscribe(func(snapshot Snapshot) {
		g.mu.Lock()
		g.current = snapshot
		g.mu.Unlock()
	})
	return g
}

// Check decides whether navigating to route may proceed. It has no side
// effects beyond the returned decision.
func (g *Guard) Check(route Route) Decision {
	g.mu.RLock()
	authenticated := g.current.Authenticated()
	g.mu.RUnlock()

	if route.RequiresAuth && !authenticated {
		return Decision{RedirectTo: g.loginPath}
	}
	return Decision{Allowed: true}
}

// Close removes the guard's subscription.
func (g *Guard) Close() {
	if g.cancel != nil {
		g.cancel()
	}
}
