package areas

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marmos91/wgps/cmd/wgpsctl/cmdutil"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <peer-id> <area-id>",
	Short: "Revoke an authorised area",
	Long: `Revoke a previously authorised area from a peer.

Examples:
  # Revoke area 7 from peer 3 with confirmation
  wgpsctl areas delete 3 7

  # Revoke without confirmation
  wgpsctl areas delete 3 7 --force`,
	Args: cobra.ExactArgs(2),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	peerID, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid peer id %q: %w", args[0], err)
	}
	areaID, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid area id %q: %w", args[1], err)
	}

	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	return cmdutil.RunDeleteWithConfirmation("area", args[1], deleteForce, func() error {
		return client.DeleteArea(uint(peerID), uint(areaID))
	})
}
