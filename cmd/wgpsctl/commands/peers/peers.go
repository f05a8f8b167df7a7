// Package peers implements peer registry management commands for wgpsctl.
package peers

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for peer registry management.
var Cmd = &cobra.Command{
	Use:   "peers",
	Short: "Known-peer registry management",
	Long: `Manage the daemon's known-peer registry.

Peers are stored in the control plane's registry under the public key
the operator supplies. The daemon's sync sessions do not look peers up
in the registry, and area registration does not check that the peer id
exists.

Examples:
  # List registered peers
  wgpsctl peers list

  # Register a new peer
  wgpsctl peers create --name alice --public-key <hex>

  # Remove a peer
  wgpsctl peers delete 3`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(deleteCmd)
}
