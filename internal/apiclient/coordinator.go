package apiclient

import (
	"context"
	"sync"

	domainauth "github.com/busbook/busbook/internal/domain/auth"
)

// refreshResult is the single outcome shared by every request waiting on an
// in-flight refresh.
type refreshResult struct {
	token string
	err   error
}

// flight tracks one in-flight refresh and its queued waiters. Waiters are
// appended in arrival order and drained in that same order.
type flight struct {
	waiters []chan refreshResult
}

// coordinator guarantees at most one refresh call per scope is in flight at
// a time. Requests that hit 401 while a refresh is outstanding enqueue a
// continuation and are satisfied by that refresh's single outcome.
type coordinator struct {
	mu       sync.Mutex
	inflight map[domainauth.Scope]*flight
}

func newCoordinator() *coordinator {
	return &coordinator{inflight: make(map[domainauth.Scope]*flight)}
}

// await returns the outcome of the scope's refresh, invoking fn only when no
// refresh is already underway. The leader is elected synchronously under the
// lock before any network work begins, so concurrent 401s can never start a
// second refresh. The waiter queue is drained exactly once, in FIFO order,
// when fn settles.
func (c *coordinator) await(ctx context.Context, scope domainauth.Scope, fn func() (string, error)) (string, error) {
	c.mu.Lock()
	if f, ok := c.inflight[scope]; ok {
		ch := make(chan refreshResult, 1)
		f.waiters = append(f.waiters, ch)
		c.mu.Unlock()

		select {
		case res := <-ch:
			return res.token, res.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	f := &flight{}
	c.inflight[scope] = f
	c.mu.Unlock()

	token, err := fn()

	c.mu.Lock()
	delete(c.inflight, scope)
	waiters := f.waiters
	c.mu.Unlock()

	// Channels are buffered, so a waiter that gave up on its context cannot
	// stall the drain for those behind it.
	for _, ch := range waiters {
		ch <- refreshResult{token: token, err: err}
	}

	return token, err
}
