package services

import "sync"

// RefreshGate decides whether an incoming change event should trigger a
// view refetch. While an admin edit is in progress the gate stays closed so
// a background refresh cannot clobber in-flight form state. The token lets
// a caller discard responses that raced an older request.
type RefreshGate struct {
	mu      sync.Mutex
	editing int
	token   uint64
}

// BeginEdit closes the gate. Edits nest.
func (g *RefreshGate) BeginEdit() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.editing++
}

// EndEdit reopens the gate once every nested edit has finished.
func (g *RefreshGate) EndEdit() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.editing > 0 {
		g.editing--
	}
}

// ShouldRefresh reports whether a change event may trigger a refetch now.
func (g *RefreshGate) ShouldRefresh() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.editing == 0
}

// NextToken issues a monotonically increasing request token.
func (g *RefreshGate) NextToken() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token++
	return g.token
}

// IsCurrent reports whether a response tagged with token is still the
// latest request. Stale responses are simply dropped.
func (g *RefreshGate) IsCurrent(token uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return token == g.token
}
