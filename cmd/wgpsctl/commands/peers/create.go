package peers

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/wgps/cmd/wgpsctl/cmdutil"
	"github.com/marmos91/wgps/pkg/apiclient"
)

var (
	createName      string
	createPublicKey string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new peer",
	Long: `Register a new peer with the control plane.

The public key is the Ed25519 key the peer presents during its
authorisation token exchange, hex-encoded.

Examples:
  # Register a peer
  wgpsctl peers create --name alice --public-key 9f1c...e2

  wgpsctl peers create --name alice --public-key 9f1c...e2 -o json`,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "Display name for the peer (required)")
	createCmd.Flags().StringVar(&createPublicKey, "public-key", "", "Hex-encoded Ed25519 public key (required)")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("public-key")
}

func runCreate(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	key, err := hex.DecodeString(createPublicKey)
	if err != nil {
		return fmt.Errorf("invalid --public-key: %w", err)
	}

	peer, err := client.CreatePeer(apiclient.CreatePeerRequest{
		DisplayName: createName,
		PublicKey:   key,
	})
	if err != nil {
		return fmt.Errorf("failed to create peer: %w", err)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, peer, fmt.Sprintf("Peer '%s' registered (id %d)", peer.DisplayName, peer.ID))
}
