package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clearwater-hss/cx-gateway/internal/cli/output"
	"github.com/clearwater-hss/cx-gateway/pkg/client/go/cxgateway"
)

var visitedNetwork string

var registrationStatusCmd = &cobra.Command{
	Use:   "registration-status <impi> <impu>",
	Short: "Check whether a subscriber may register a public identity",
	Args:  cobra.ExactArgs(2),
	RunE:  runRegistrationStatus,
}

func init() {
	registrationStatusCmd.Flags().StringVar(&visitedNetwork, "visited-network", "", "visited network identifier")
}

func runRegistrationStatus(cmd *cobra.Command, args []string) error {
	impi, impu := args[0], args[1]

	status, err := Flags.Client().RegistrationStatus(context.Background(), impi, impu, visitedNetwork)
	if err != nil {
		return err
	}

	printServerAssignmentStatus(status)
	return nil
}

// printServerAssignmentStatus renders the §4.3.2/§4.3.3 reply shape shared
// by registration-status and location.
func printServerAssignmentStatus(status *cxgateway.ServerAssignmentStatus) {
	pairs := [][2]string{
		{"Result Code", fmt.Sprintf("%d", status.ResultCode)},
	}
	if status.SCSCF != "" {
		pairs = append(pairs, [2]string{"S-CSCF", status.SCSCF})
	}
	if status.WildcardIdentity != "" {
		pairs = append(pairs, [2]string{"Wildcard Identity", status.WildcardIdentity})
	}
	if len(status.MandatoryCapabilities) > 0 {
		pairs = append(pairs, [2]string{"Mandatory Capabilities", fmt.Sprint(status.MandatoryCapabilities)})
	}
	if len(status.OptionalCapabilities) > 0 {
		pairs = append(pairs, [2]string{"Optional Capabilities", fmt.Sprint(status.OptionalCapabilities)})
	}
	output.SimpleTable(os.Stdout, pairs)
}
