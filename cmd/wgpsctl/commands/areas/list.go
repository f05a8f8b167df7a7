package areas

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marmos91/wgps/cmd/wgpsctl/cmdutil"
	"github.com/marmos91/wgps/pkg/apiclient"
)

var listCmd = &cobra.Command{
	Use:   "list <peer-id>",
	Short: "List a peer's authorised areas",
	Long: `List the areas authorised for a registered peer.

Examples:
  # List areas for peer 3
  wgpsctl areas list 3

  wgpsctl areas list 3 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

// AreaList is a list of areas for table rendering.
type AreaList []apiclient.Area

// Headers implements output.TableRenderer.
func (al AreaList) Headers() []string {
	return []string{"ID", "NAMESPACE", "SUBSPACE", "PATH PREFIX", "ANY SUBSPACE"}
}

// Rows implements output.TableRenderer.
func (al AreaList) Rows() [][]string {
	rows := make([][]string, 0, len(al))
	for _, a := range al {
		subspace := "-"
		if !a.AnySubspace {
			subspace = hex.EncodeToString(a.Subspace)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", a.ID),
			hex.EncodeToString(a.Namespace),
			subspace,
			hex.EncodeToString(a.PathPrefix),
			cmdutil.BoolToYesNo(a.AnySubspace),
		})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	peerID, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid peer id %q: %w", args[0], err)
	}

	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	areas, err := client.ListAreas(uint(peerID))
	if err != nil {
		return fmt.Errorf("failed to list areas: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, areas, len(areas) == 0, "No areas authorised for this peer.", AreaList(areas))
}
