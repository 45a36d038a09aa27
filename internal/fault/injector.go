package fault

import (
	"math/rand/v2"
	"sync/atomic"
)

// Injector decides whether a /error/random/{percent}/ request fails.
type Injector struct {
	draw func() int

	totalDraws    atomic.Int64
	totalFailures atomic.Int64
}

// Snapshot is a point-in-time view of the injector's totals.
type Snapshot struct {
	Draws    int64 `json:"draws"`
	Failures int64 `json:"failures"`
}

// NewInjector returns an injector backed by the math/rand/v2 global source,
// which is safe for concurrent use.
func NewInjector() *Injector {
	return &Injector{
		draw: func() int { return rand.IntN(100) + 1 },
	}
}

// ShouldFail draws a value in [1, 100] and reports whether it is <= percent.
// percent is not clamped: 0 never fails and anything >= 100 always fails.
func (i *Injector) ShouldFail(percent int) bool {
	i.totalDraws.Add(1)

	if i.draw() <= percent {
		i.totalFailures.Add(1)
		return true
	}

	return false
}

func (i *Injector) Snapshot() Snapshot {
	return Snapshot{
		Draws:    i.totalDraws.Load(),
		Failures: i.totalFailures.Load(),
	}
}
