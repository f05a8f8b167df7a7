package peers

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marmos91/wgps/cmd/wgpsctl/cmdutil"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a registered peer",
	Long: `Remove a peer from the control plane's registry.

Deleting a peer also removes every authorised area granted to it.

Examples:
  # Delete peer 3 with confirmation
  wgpsctl peers delete 3

  # Delete without confirmation
  wgpsctl peers delete 3 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid peer id %q: %w", args[0], err)
	}

	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	return cmdutil.RunDeleteWithConfirmation("peer", args[0], deleteForce, func() error {
		return client.DeletePeer(uint(id))
	})
}
