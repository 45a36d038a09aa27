//go:build !unix

package shutdown

import "os"

// No terminate signal outside unix; the terminate source never fires.
func terminateSignals() []os.Signal {
	return nil
}
