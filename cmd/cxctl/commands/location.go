package commands

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	locationOriginating string
	locationAuthType    string
)

var locationCmd = &cobra.Command{
	Use:   "location <impu>",
	Short: "Look up which S-CSCF currently serves a public identity",
	Args:  cobra.ExactArgs(1),
	RunE:  runLocation,
}

func init() {
	locationCmd.Flags().StringVar(&locationOriginating, "originating", "", "originating-request indicator")
	locationCmd.Flags().StringVar(&locationAuthType, "auth-type", "", "authorization type")
}

func runLocation(cmd *cobra.Command, args []string) error {
	impu := args[0]

	status, err := Flags.Client().LocationInfo(context.Background(), impu, locationOriginating, locationAuthType)
	if err != nil {
		return err
	}

	printServerAssignmentStatus(status)
	return nil
}
