// Command wgpsctl is the operator CLI for a wgpsd control plane: login,
// and management of the control plane's peer/area registry.
package main

import (
	"fmt"
	"os"

	"github.com/marmos91/wgps/cmd/wgpsctl/commands"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
