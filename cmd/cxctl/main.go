// Package main is cxctl, an operator CLI over a running Cx gateway's
// router-facing HTTP surface.
package main

import (
	"fmt"
	"os"

	"github.com/clearwater-hss/cx-gateway/cmd/cxctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cxctl:", err)
		os.Exit(1)
	}
}
