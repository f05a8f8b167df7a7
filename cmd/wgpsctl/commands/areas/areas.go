// Package areas implements authorised-area registry management commands
// for wgpsctl.
package areas

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for authorised-area registry management.
var Cmd = &cobra.Command{
	Use:   "areas",
	Short: "Authorised-area registry management",
	Long: `Manage the areas a registered peer is authorised to sync.

Areas are stored in the control plane's registry. The daemon's sync
sessions do not read the registry: registering an area does not submit
a ReadCapability into any session.

Examples:
  # List areas authorised for peer 3
  wgpsctl areas list 3

  # Authorise an area
  wgpsctl areas create 3 --namespace <hex> --any-subspace --path-prefix <hex>

  # Revoke an area
  wgpsctl areas delete 3 7`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(deleteCmd)
}
