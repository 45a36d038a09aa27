// Package fault implements probabilistic failure injection.
//
// Each call to ShouldFail performs an independent uniform draw; there is no
// shared generator state to guard, so the injector can be used from any
// number of request goroutines at once.
package fault
