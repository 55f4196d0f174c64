package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/clearwater-hss/cx-gateway/internal/cli/output"
)

var digestCmd = &cobra.Command{
	Use:   "digest <impi> <public-id>",
	Short: "Fetch the SIP Digest HA1 for a private identity",
	Args:  cobra.ExactArgs(2),
	RunE:  runDigest,
}

func runDigest(cmd *cobra.Command, args []string) error {
	impi, publicID := args[0], args[1]

	d, err := Flags.Client().Digest(context.Background(), impi, publicID)
	if err != nil {
		return err
	}

	output.SimpleTable(os.Stdout, [][2]string{
		{"IMPI", impi},
		{"Public ID", publicID},
		{"Digest HA1", d.DigestHA1},
	})
	return nil
}
