package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ThermoCalc/internal/calc/diffusion"
)

const tabwriterPadding = 2

func newDiffuseCmd() *cobra.Command {
	var (
		params diffusion.Parameters
		bc     string
		format string
	)

	cmd := &cobra.Command{
		Use:   "diffuse",
		Short: "Compute an erf diffusion profile",
		Example: `  # Carburizing at 1200 K for one hour
  thermocalc diffuse --time 3600 --coefficient 1e-12

  # Full profile as CSV
  thermocalc diffuse --time 7200 --format csv > profile.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params.BoundaryCondition = diffusion.BoundaryCondition(bc)
			res, err := diffusion.Calculate(params)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			case "csv":
				return writeCSV(out, res)
			case "table":
				return writeTable(out, params, res)
			default:
				return fmt.Errorf("unknown format %q (want table, json or csv)", format)
			}
		},
	}

	cmd.Flags().Float64Var(&params.Temperature, "temperature", diffusion.DefaultTemperature, "Temperature in K")
	cmd.Flags().Float64Var(&params.Time, "time", diffusion.DefaultTime, "Diffusion time in s")
	cmd.Flags().Float64Var(&params.DiffusionCoefficient, "coefficient", diffusion.DefaultCoefficient, "Diffusion coefficient in m²/s")
	cmd.Flags().Float64Var(&params.InterfaceOffset, "interface", 0, "Interface position in µm")
	cmd.Flags().StringVar(&bc, "boundary", string(diffusion.BoundaryFixed), "Boundary condition: fixed, flux or infinite")
	cmd.Flags().StringVarP(&format, "format", "o", "table", "Output format: table, json or csv")

	return cmd
}

func writeTable(w io.Writer, in diffusion.Parameters, res diffusion.Result) error {
	d := diffusion.Format(res.Summary(), &in.Time)
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	fmt.Fprintf(tw, "Penetration depth\t%s\n", d.PenetrationDepth)
	fmt.Fprintf(tw, "Surface flux\t%s\n", d.FluxRate)
	fmt.Fprintf(tw, "Interface concentration\t%s\n", d.InterfaceConcentration)
	fmt.Fprintf(tw, "Elapsed time (h)\t%s\n", d.ElapsedHours)
	fmt.Fprintf(tw, "Boundary condition\t%s\n", res.BoundaryCondition)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "POSITION (µm)\tCONCENTRATION (wt%)")
	for i := 0; i < len(res.Profile); i += 10 {
		p := res.Profile[i]
		fmt.Fprintf(tw, "%.1f\t%.2f\n", p.Position, p.Concentration)
	}
	return tw.Flush()
}

func writeCSV(w io.Writer, res diffusion.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"position_um", "concentration_wt_pct"}); err != nil {
		return err
	}
	for _, p := range res.Profile {
		row := []string{
			strconv.FormatFloat(p.Position, 'f', -1, 64),
			strconv.FormatFloat(p.Concentration, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
