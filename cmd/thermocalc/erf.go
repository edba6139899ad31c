package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"ThermoCalc/internal/calc/diffusion"
)

func newErfCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "erf <x>",
		Short: "Print the erf approximation next to math.Erf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("parse x: %w", err)
			}
			approx, exact := diffusion.Erf(x), math.Erf(x)
			cmd.Printf("erf(%g)\n", x)
			cmd.Printf("  approx: %.9f\n", approx)
			cmd.Printf("  exact:  %.9f\n", exact)
			cmd.Printf("  error:  %.2e\n", math.Abs(approx-exact))
			return nil
		},
	}
}
