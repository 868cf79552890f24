package check

import "sync/atomic"

// Guard records whether a verdict was already received for the current
// request. Share one Guard between clients to keep them to a single call.
type Guard struct {
	executed atomic.Bool
}

func NewGuard() *Guard {
	return &Guard{}
}

func (g *Guard) Executed() bool {
	return g.executed.Load()
}

// MarkExecuted sets the guard and reports whether this call was the one that
// set it.
func (g *Guard) MarkExecuted() bool {
	return g.executed.CompareAndSwap(false, true)
}
