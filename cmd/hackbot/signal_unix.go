//go:build !windows

package main

import (
	"os"
	"syscall"
)

// terminationSignals stop the server gracefully: Ctrl-C and the SIGTERM sent
// by kill, systemd and container runtimes.
var terminationSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
