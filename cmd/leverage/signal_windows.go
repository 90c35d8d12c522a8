//go:build windows

package main

import "os"

// shutdownSignals end a run or the MCP server gracefully.
// SIGTERM does not exist on Windows.
var shutdownSignals = []os.Signal{os.Interrupt}
