package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "thermocalc",
		Short:        "ThermoCalc calculators from the command line",
		SilenceUsage: true,
	}
	cmd.AddCommand(newDiffuseCmd(), newErfCmd())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
