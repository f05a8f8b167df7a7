// Command wgpsd is the reference WGPS sync daemon: it accepts TCP
// connections, runs the engine session state machine over each one, and
// exposes a control-plane REST API for registering peers and their
// authorised sync areas.
package main

import (
	"fmt"
	"os"

	"github.com/marmos91/wgps/cmd/wgpsd/commands"
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
