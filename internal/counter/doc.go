// Package counter holds the shared error counter used for
// "fail N times, then succeed" responses.
//
// A single Counter is created at startup and passed to the request handler.
// All reads and writes go through one sync.Mutex:
//
//	c := counter.New()
//	failing, err := c.IncrementAndCheck(3) // true, true, true, false, ...
//	_ = c.Reset()
//
// If code running inside the critical section panics, the counter is marked
// poisoned and every subsequent call returns ErrPoisoned. Callers are expected
// to answer with an internal error rather than guess at the value.
package counter
