package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clearwater-hss/cx-gateway/pkg/client/go/cxgateway"
)

var (
	regDataReqType          string
	regDataServerName       string
	regDataWildcardIdentity string
)

var regDataCmd = &cobra.Command{
	Use:   "reg-data <impu> [get|put]",
	Short: "Read or mutate the cached IRS for a public identity",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runRegData,
}

func init() {
	regDataCmd.Flags().StringVar(&regDataReqType, "reqtype", "call", "reqtype for a put (reg, call, dereg-*)")
	regDataCmd.Flags().StringVar(&regDataServerName, "server-name", "", "S-CSCF name for a put")
	regDataCmd.Flags().StringVar(&regDataWildcardIdentity, "wildcard-identity", "", "router-supplied wildcard for a put")
}

func runRegData(cmd *cobra.Command, args []string) error {
	impu := args[0]
	action := "get"
	if len(args) == 2 {
		action = args[1]
	}

	client := Flags.Client()
	ctx := context.Background()

	var (
		xml string
		err error
	)
	switch action {
	case "get":
		xml, err = client.GetRegData(ctx, impu)
	case "put":
		xml, err = client.PutRegData(ctx, impu, cxgateway.RegDataPutRequest{
			ReqType:          regDataReqType,
			ServerName:       regDataServerName,
			WildcardIdentity: regDataWildcardIdentity,
		})
	default:
		return fmt.Errorf("unknown reg-data action %q: expected get or put", action)
	}
	if err != nil {
		return err
	}

	fmt.Println(xml)
	return nil
}
