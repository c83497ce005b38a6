package lambdagraphql

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fleetpin/lambda-graphql/graphql"
)

// Execution is a handle to an in-flight query execution. It resolves at
// most once. Callbacks registered before resolution run on the completing
// goroutine once the result arrives; callbacks registered afterwards run
// immediately on the caller's goroutine.
type Execution struct {
	done chan struct{}

	mu        sync.Mutex
	resolved  bool
	callbacks []func(*graphql.Result, error)
	result    *graphql.Result
	err       error
}

func newExecution() *Execution {
	return &Execution{done: make(chan struct{})}
}

func (e *Execution) complete(result *graphql.Result, err error) {
	e.mu.Lock()
	if e.resolved {
		e.mu.Unlock()
		return
	}
	e.resolved = true
	e.result, e.err = result, err
	callbacks := e.callbacks
	e.callbacks = nil
	e.mu.Unlock()

	close(e.done)
	for _, fn := range callbacks {
		fn(result, err)
	}
}

// Done is closed once the execution has resolved.
func (e *Execution) Done() <-chan struct{} { return e.done }

// Wait blocks until the execution resolves or ctx is cancelled.
func (e *Execution) Wait(ctx context.Context) (*graphql.Result, error) {
	select {
	case <-e.done:
		return e.result, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// OnComplete registers fn to run once the result is available. It never
// blocks and may be called before the execution has resolved.
func (e *Execution) OnComplete(fn func(*graphql.Result, error)) {
	e.mu.Lock()
	if e.resolved {
		result, err := e.result, e.err
		e.mu.Unlock()
		fn(result, err)
		return
	}
	e.callbacks = append(e.callbacks, fn)
	e.mu.Unlock()
}

// Context is the per-invocation state handed to the executor alongside
// the query. It is never shared or reused across invocations.
type Context interface {
	// Start is invoked exactly once per invocation, after the execution
	// has been dispatched and before its result is awaited. The handle has
	// not necessarily resolved yet. Start may register completion
	// callbacks on it but must not block.
	Start(*Execution)
}

// StartGuard enforces the single-start contract for Context
// implementations that embed it.
type StartGuard struct {
	started atomic.Bool
}

// Begin records the transition to started. It returns false if Start was
// already recorded, letting implementations ignore repeated calls.
func (g *StartGuard) Begin() bool {
	return g.started.CompareAndSwap(false, true)
}

// Started reports whether Begin has been called.
func (g *StartGuard) Started() bool {
	return g.started.Load()
}
