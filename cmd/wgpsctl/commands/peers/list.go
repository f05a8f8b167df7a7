package peers

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/wgps/cmd/wgpsctl/cmdutil"
	"github.com/marmos91/wgps/pkg/apiclient"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered peers",
	Long: `List peers registered with the control plane.

Examples:
  # List peers as a table
  wgpsctl peers list

  # List as JSON
  wgpsctl peers list -o json`,
	RunE: runList,
}

// PeerList is a list of peers for table rendering.
type PeerList []apiclient.Peer

// Headers implements output.TableRenderer.
func (pl PeerList) Headers() []string {
	return []string{"ID", "NAME", "PUBLIC KEY"}
}

// Rows implements output.TableRenderer.
func (pl PeerList) Rows() [][]string {
	rows := make([][]string, 0, len(pl))
	for _, p := range pl {
		rows = append(rows, []string{fmt.Sprintf("%d", p.ID), p.DisplayName, hex.EncodeToString(p.PublicKey)})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	peers, err := client.ListPeers()
	if err != nil {
		return fmt.Errorf("failed to list peers: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, peers, len(peers) == 0, "No peers registered.", PeerList(peers))
}
