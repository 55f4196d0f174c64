package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/clearwater-hss/cx-gateway/internal/cli/output"
)

var (
	akaServerName string
	akaResyncAuth string
)

var akaCmd = &cobra.Command{
	Use:   "aka <impi> <scheme> <public-id>",
	Short: "Fetch an AKA authentication vector for a private identity",
	Long:  `Fetch an AKA authentication vector, where scheme is the AKA scheme name the gateway was configured with (e.g. "aka" or "aka2").`,
	Args:  cobra.ExactArgs(3),
	RunE:  runAKA,
}

func init() {
	akaCmd.Flags().StringVar(&akaServerName, "server-name", "", "S-CSCF name to authorize")
	akaCmd.Flags().StringVar(&akaResyncAuth, "resync-auth", "", "resynchronisation AUTS value")
}

func runAKA(cmd *cobra.Command, args []string) error {
	impi, scheme, publicID := args[0], args[1], args[2]

	av, err := Flags.Client().AKA(context.Background(), impi, scheme, publicID, akaServerName, akaResyncAuth)
	if err != nil {
		return err
	}

	output.SimpleTable(os.Stdout, [][2]string{
		{"IMPI", impi},
		{"Challenge", av.AKA.Challenge},
		{"Response", av.AKA.Response},
		{"Crypt Key", av.AKA.CryptKey},
		{"Integrity Key", av.AKA.IntegrityKey},
	})
	return nil
}
