package fiber

import (
	"context"
	"sync"
	"sync/atomic"
)

// Gate serializes all work for a given key (a domain UID) within one
// namespace: at most one active Fiber per key at any instant. Multiple
// Gates (one per namespace, or one for make-right and one for status) are
// independent of one another.
type Gate struct {
	executor *Executor

	mu      sync.Mutex
	current map[string]*Fiber
}

// NewGate creates a Gate that starts fibers on executor.
func NewGate(executor *Executor) *Gate {
	return &Gate{executor: executor, current: make(map[string]*Fiber)}
}

// StartFiber cancels any fiber currently registered under key, then starts
// a new one unconditionally. Used when the caller wants to interrupt
// whatever is running.
func (g *Gate) StartFiber(ctx context.Context, key string, step Step, packet *Packet, cb CompletionCallback) *Fiber {
	g.mu.Lock()
	if old, ok := g.current[key]; ok && !old.Done() {
		old.Cancel()
	}
	f := g.startLocked(ctx, key, step, packet, cb)
	g.mu.Unlock()
	return f
}

// StartFiberIfNoCurrentFiber starts a new fiber for key only if no fiber is
// currently active for it. It returns nil without starting anything
// otherwise.
func (g *Gate) StartFiberIfNoCurrentFiber(ctx context.Context, key string, step Step, packet *Packet, cb CompletionCallback) *Fiber {
	g.mu.Lock()
	defer g.mu.Unlock()
	if old, ok := g.current[key]; ok && !old.Done() {
		return nil
	}
	return g.startLocked(ctx, key, step, packet, cb)
}

// StartFiberIfLastFiberMatches starts a new fiber for key only if the fiber
// currently registered for key is exactly expected. This lets a completion
// callback safely chain a follow-up step without racing a newer fiber that
// may have already taken over key.
func (g *Gate) StartFiberIfLastFiberMatches(ctx context.Context, key string, expected *Fiber, step Step, packet *Packet, cb CompletionCallback) *Fiber {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current[key] != expected {
		return nil
	}
	return g.startLocked(ctx, key, step, packet, cb)
}

// CurrentFibers returns a snapshot of the fibers currently registered per
// key, for diagnostics.
func (g *Gate) CurrentFibers() map[string]*Fiber {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]*Fiber, len(g.current))
	for k, v := range g.current {
		out[k] = v
	}
	return out
}

// startLocked must be called with g.mu held. It starts the fiber and
// arranges for the gate's bookkeeping to clear once it finishes, provided
// no newer fiber has since taken key's slot.
func (g *Gate) startLocked(ctx context.Context, key string, step Step, packet *Packet, cb CompletionCallback) *Fiber {
	var holder atomic.Pointer[Fiber]
	clearIfCurrent := func() {
		f := holder.Load()
		if f == nil {
			return
		}
		g.mu.Lock()
		if g.current[key] == f {
			delete(g.current, key)
		}
		g.mu.Unlock()
	}
	wrapped := CompletionCallbackFuncs{
		Completion: func(p *Packet) {
			if cb != nil {
				cb.OnCompletion(p)
			}
			clearIfCurrent()
		},
		Throwable: func(p *Packet, err error) {
			if cb != nil {
				cb.OnThrowable(p, err)
			}
			clearIfCurrent()
		},
	}
	f := g.executor.Start(ctx, step, packet, wrapped)
	holder.Store(f)
	g.current[key] = f
	return f
}
