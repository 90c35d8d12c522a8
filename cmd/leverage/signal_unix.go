//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals end a run or the MCP server gracefully.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
