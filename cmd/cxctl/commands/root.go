// Package commands implements cxctl's subcommands: a thin operator CLI
// over the Cx gateway's router-facing HTTP surface, grounded on
// marmos91-dittofs's cmd/dittofsctl root-command-plus-persistent-flags
// pattern.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/clearwater-hss/cx-gateway/pkg/client/go/cxgateway"
)

// Flags holds the global flag values shared by every subcommand.
var Flags = &GlobalFlags{}

// GlobalFlags are the persistent flags every cxctl subcommand reads.
type GlobalFlags struct {
	ServerURL string
}

// Client builds a cxgateway.Client against the configured --server.
func (f *GlobalFlags) Client() *cxgateway.Client {
	return cxgateway.NewClient(f.ServerURL)
}

var rootCmd = &cobra.Command{
	Use:           "cxctl",
	Short:         "cxctl inspects a running Cx gateway's subscriber-data cache",
	Long:          `cxctl is an operator CLI for a Cx gateway: it looks up digests, registration status, location, and reg-data against a running instance's HTTP surface, the way an operator would curl it by hand.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from cmd/cxctl/main.go.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&Flags.ServerURL, "server", "http://localhost:7700", "Cx gateway base URL")

	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(akaCmd)
	rootCmd.AddCommand(registrationStatusCmd)
	rootCmd.AddCommand(locationCmd)
	rootCmd.AddCommand(regDataCmd)
}
