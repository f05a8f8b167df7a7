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

var (
	createNamespace   string
	createSubspace    string
	createPathPrefix  string
	createAnySubspace bool
)

var createCmd = &cobra.Command{
	Use:   "create <peer-id>",
	Short: "Authorise an area for a peer",
	Long: `Authorise a sync area for a registered peer.

Namespace and path-prefix are hex-encoded byte strings. Pass
--any-subspace to grant the whole subspace dimension, otherwise
--subspace selects a single one.

Examples:
  # Authorise a full-namespace area
  wgpsctl areas create 3 --namespace 9f1c... --any-subspace

  # Authorise a scoped area
  wgpsctl areas create 3 --namespace 9f1c... --subspace ab12... --path-prefix 2f646f6373`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createNamespace, "namespace", "", "Hex-encoded namespace identifier (required)")
	createCmd.Flags().StringVar(&createSubspace, "subspace", "", "Hex-encoded subspace identifier")
	createCmd.Flags().StringVar(&createPathPrefix, "path-prefix", "", "Hex-encoded path prefix")
	createCmd.Flags().BoolVar(&createAnySubspace, "any-subspace", false, "Grant every subspace in the namespace")
	_ = createCmd.MarkFlagRequired("namespace")
}

func runCreate(cmd *cobra.Command, args []string) error {
	peerID, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid peer id %q: %w", args[0], err)
	}

	if !createAnySubspace && createSubspace == "" {
		return fmt.Errorf("one of --subspace or --any-subspace is required")
	}

	namespace, err := hex.DecodeString(createNamespace)
	if err != nil {
		return fmt.Errorf("invalid --namespace: %w", err)
	}

	var subspace []byte
	if !createAnySubspace {
		subspace, err = hex.DecodeString(createSubspace)
		if err != nil {
			return fmt.Errorf("invalid --subspace: %w", err)
		}
	}

	var pathPrefix []byte
	if createPathPrefix != "" {
		pathPrefix, err = hex.DecodeString(createPathPrefix)
		if err != nil {
			return fmt.Errorf("invalid --path-prefix: %w", err)
		}
	}

	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	area, err := client.CreateArea(uint(peerID), apiclient.CreateAreaRequest{
		Namespace:   namespace,
		Subspace:    subspace,
		PathPrefix:  pathPrefix,
		AnySubspace: createAnySubspace,
	})
	if err != nil {
		return fmt.Errorf("failed to create area: %w", err)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, area, fmt.Sprintf("Area %d authorised for peer %d", area.ID, area.PeerID))
}
