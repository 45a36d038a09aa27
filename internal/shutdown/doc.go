// Package shutdown coordinates graceful termination.
//
// A Coordinator listens to an interrupt source and a terminate source at the
// same time. Whichever fires first starts a drain of the HTTP server: new
// connections are refused and in-flight requests are allowed to finish.
// Notifications that arrive after the drain has started are logged and
// otherwise ignored.
//
//	coord := shutdown.New(logger)
//	defer coord.Stop()
//	err := coord.Run(ctx, srv, 5*time.Second)
package shutdown
