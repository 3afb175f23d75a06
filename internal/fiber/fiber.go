package fiber

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"
)

// Status is the lifecycle state of a Fiber.
type Status int32

const (
	StatusRunning Status = iota
	StatusCompleted
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// CompletionCallback is notified exactly once when a Fiber finishes,
// whichever way it finishes. Steps never terminate the process; every
// failure is delivered here instead.
type CompletionCallback interface {
	OnCompletion(packet *Packet)
	OnThrowable(packet *Packet, err error)
}

// CompletionCallbackFuncs adapts two plain functions to CompletionCallback.
type CompletionCallbackFuncs struct {
	Completion func(packet *Packet)
	Throwable  func(packet *Packet, err error)
}

func (f CompletionCallbackFuncs) OnCompletion(packet *Packet) {
	if f.Completion != nil {
		f.Completion(packet)
	}
}

func (f CompletionCallbackFuncs) OnThrowable(packet *Packet, err error) {
	if f.Throwable != nil {
		f.Throwable(packet, err)
	}
}

type resumeSignal struct {
	next Step
}

// Fiber is an ephemeral cooperative task executing a Step chain. It is
// created by an Executor, runs on its own goroutine, and terminates on
// end-of-chain, explicit cancel, or an uncaught panic from a Step.
type Fiber struct {
	ID uint64

	ctx    context.Context
	cancel context.CancelFunc

	cancelled atomic.Bool
	status    atomic.Int32

	packet   *Packet
	start    Step
	cb       CompletionCallback
	resumeCh chan resumeSignal
	done     chan struct{}
}

// Status returns the Fiber's current lifecycle state.
func (f *Fiber) Status() Status { return Status(f.status.Load()) }

// Done reports whether the Fiber has finished (any terminal state).
func (f *Fiber) Done() bool { return f.Status() != StatusRunning }

// Cancel marks the Fiber cancelled. The Fiber ends with StatusCancelled at
// the next cooperative point: the next Apply boundary, or the next
// suspension resume. In-flight Kubernetes requests made by the Step that
// suspended are not rolled back.
func (f *Fiber) Cancel() {
	f.cancelled.Store(true)
	f.cancel()
}

// Resume re-queues a suspended Fiber to continue at next with the same
// Packet. At most one resume is honored per suspension: a second call
// before the Fiber has consumed the first is a no-op.
func (f *Fiber) Resume(next Step) {
	select {
	case f.resumeCh <- resumeSignal{next: next}:
	default:
	}
}

// Wait blocks until the Fiber terminates.
func (f *Fiber) Wait() {
	<-f.done
}

func (f *Fiber) finish(status Status) {
	f.status.Store(int32(status))
}

// Executor runs Fiber chains on goroutines and tracks the set of active
// fibers for diagnostics. One Executor is shared by every FiberGate in a
// process.
type Executor struct {
	logger logr.Logger

	mu     sync.RWMutex
	fibers map[uint64]*Fiber
	nextID atomic.Uint64
}

// NewExecutor creates an Executor that logs through logger.
func NewExecutor(logger logr.Logger) *Executor {
	return &Executor{logger: logger, fibers: make(map[uint64]*Fiber)}
}

// Start schedules step's chain to run against packet on a new goroutine and
// returns immediately with a handle to the running Fiber. At most one
// Apply call runs for this Fiber at a time, by construction: only its own
// goroutine ever calls Apply.
func (e *Executor) Start(ctx context.Context, step Step, packet *Packet, cb CompletionCallback) *Fiber {
	id := e.nextID.Add(1)
	fctx, cancel := context.WithCancel(ctx)
	f := &Fiber{
		ID:       id,
		ctx:      fctx,
		cancel:   cancel,
		packet:   packet,
		start:    step,
		cb:       cb,
		resumeCh: make(chan resumeSignal, 1),
		done:     make(chan struct{}),
	}

	packet.setFiber(f)

	e.mu.Lock()
	e.fibers[id] = f
	e.mu.Unlock()

	go e.run(f)
	return f
}

// CurrentFibers returns a snapshot of every fiber still tracked by this
// executor, for diagnostics.
func (e *Executor) CurrentFibers() map[uint64]*Fiber {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[uint64]*Fiber, len(e.fibers))
	for k, v := range e.fibers {
		out[k] = v
	}
	return out
}

func (e *Executor) unregister(id uint64) {
	e.mu.Lock()
	delete(e.fibers, id)
	e.mu.Unlock()
}

func safeApply(ctx context.Context, step Step, p *Packet) (action NextAction, err error) {
	defer func() {
		if r := recover(); r != nil {
			if asErr, ok := r.(error); ok {
				err = fmt.Errorf("panic in step %T: %w", step, asErr)
			} else {
				err = fmt.Errorf("panic in step %T: %v", step, r)
			}
		}
	}()
	action = step.Apply(ctx, p)
	return
}

func (e *Executor) run(f *Fiber) {
	defer func() {
		e.unregister(f.ID)
		close(f.done)
	}()

	current := f.start
	for current != nil {
		if f.cancelled.Load() {
			f.finish(StatusCancelled)
			e.logger.V(1).Info("fiber cancelled", "fiberID", f.ID)
			return
		}

		action, err := safeApply(f.ctx, current, f.packet)
		if err != nil {
			f.finish(StatusFailed)
			if f.cb != nil {
				f.cb.OnThrowable(f.packet, err)
			}
			return
		}

		switch action.Kind {
		case ActionEnd:
			f.finish(StatusCompleted)
			if f.cb != nil {
				f.cb.OnCompletion(f.packet)
			}
			return
		case ActionContinue:
			if action.Next == nil {
				f.finish(StatusCompleted)
				if f.cb != nil {
					f.cb.OnCompletion(f.packet)
				}
				return
			}
			current = action.Next
		case ActionSuspend:
			select {
			case sig := <-f.resumeCh:
				if f.cancelled.Load() {
					f.finish(StatusCancelled)
					return
				}
				current = sig.next
			case <-f.ctx.Done():
				f.finish(StatusCancelled)
				return
			}
		}
	}

	f.finish(StatusCompleted)
	if f.cb != nil {
		f.cb.OnCompletion(f.packet)
	}
}
