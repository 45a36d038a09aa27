package counter

import (
	"errors"
	"math"
	"sync"
)

// ErrPoisoned is returned once a panic has escaped the critical section.
// The stored value can no longer be trusted, so every later call fails.
var ErrPoisoned = errors.New("counter: state poisoned by a panic while locked")

// Counter is the process-wide error counter behind /error/count/{count}/.
type Counter struct {
	mutex    sync.Mutex
	value    int64
	poisoned bool
}

func New() *Counter {
	return &Counter{}
}

// IncrementAndCheck bumps the counter and reports whether the new value is
// still <= threshold. The increment and the comparison happen under one
// lock acquisition, so concurrent callers never observe the same value.
func (c *Counter) IncrementAndCheck(threshold int64) (bool, error) {
	var failing bool

	err := c.guard(func() {
		// Saturate instead of wrapping so the value never goes backwards.
		if c.value < math.MaxInt64 {
			c.value++
		}
		failing = c.value <= threshold
	})
	if err != nil {
		return false, err
	}

	return failing, nil
}

func (c *Counter) Reset() error {
	return c.guard(func() {
		c.value = 0
	})
}

func (c *Counter) Value() (int64, error) {
	var v int64

	err := c.guard(func() {
		v = c.value
	})

	return v, err
}

func (c *Counter) guard(fn func()) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.poisoned {
		return ErrPoisoned
	}

	defer func() {
		if r := recover(); r != nil {
			c.poisoned = true
			panic(r)
		}
	}()

	fn()

	return nil
}
