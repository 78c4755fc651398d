package gateway

import (
	"sync"
	"sync/atomic"
)

// ConnLimiter caps concurrent connections per process and per client
// address. One limiter is shared by all listeners of a service, so the
// caps hold across its TCP and UDP front ends.
type ConnLimiter struct {
	maxTotal   int
	maxPerHost int

	total atomic.Int64

	mu      sync.Mutex
	perHost map[string]int
}

// NewConnLimiter builds a limiter. A cap of zero or less disables that
// check.
func NewConnLimiter(maxTotal, maxPerHost int) *ConnLimiter {
	return &ConnLimiter{
		maxTotal:   maxTotal,
		maxPerHost: maxPerHost,
		perHost:    make(map[string]int),
	}
}

// Acquire reserves a slot for host and reports whether the connection
// may proceed. The caller must Release exactly once when the
// connection ends, and must not Release after a false return.
func (l *ConnLimiter) Acquire(host string) bool {
	n := l.total.Add(1)
	if l.maxTotal > 0 && n > int64(l.maxTotal) {
		l.total.Add(-1)
		return false
	}

	if l.maxPerHost > 0 {
		l.mu.Lock()
		if l.perHost[host] >= l.maxPerHost {
			l.mu.Unlock()
			l.total.Add(-1)
			return false
		}
		l.perHost[host]++
		l.mu.Unlock()
	}
	return true
}

// Release frees the slot taken by Acquire.
func (l *ConnLimiter) Release(host string) {
	l.total.Add(-1)
	if l.maxPerHost > 0 {
		l.mu.Lock()
		if n := l.perHost[host]; n <= 1 {
			delete(l.perHost, host)
		} else {
			l.perHost[host] = n - 1
		}
		l.mu.Unlock()
	}
}

// Total returns the number of connections currently holding a slot.
func (l *ConnLimiter) Total() int64 { return l.total.Load() }
