//go:build unix

package shutdown

import (
	"os"
	"syscall"
)

func terminateSignals() []os.Signal {
	return []os.Signal{syscall.SIGTERM}
}
