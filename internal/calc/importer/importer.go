package importer

import (
	"fmt"
	"strconv"
	"strings"

	"ThermoCalc/internal/calc/diffusion"
)

// Column order of an import sheet. boundary_condition may be left out.
const (
	colTemperature = iota
	colTime
	colCoefficient
	colInterface
	colBoundary

	minColumns = colCoefficient + 1
)

// ParseRows turns data rows (header already removed) into diffusion
// parameters. Rows that cannot be parsed or fail validation are counted in
// skipped; blank rows are ignored.
func ParseRows(rows [][]string) (params []diffusion.Parameters, skipped int) {
	for _, row := range rows {
		if blank(row) {
			continue
		}
		p, err := parseRow(row)
		if err != nil {
			skipped++
			continue
		}
		params = append(params, p)
	}
	return params, skipped
}

func parseRow(row []string) (diffusion.Parameters, error) {
	if len(row) < minColumns {
		return diffusion.Parameters{}, fmt.Errorf("bad row: %d columns", len(row))
	}
	temperature, err := toFloat(row[colTemperature])
	if err != nil {
		return diffusion.Parameters{}, err
	}
	t, err := toFloat(row[colTime])
	if err != nil {
		return diffusion.Parameters{}, err
	}
	coefficient, err := toFloat(row[colCoefficient])
	if err != nil {
		return diffusion.Parameters{}, err
	}
	offset := 0.0
	if len(row) > colInterface && strings.TrimSpace(row[colInterface]) != "" {
		if offset, err = toFloat(row[colInterface]); err != nil {
			return diffusion.Parameters{}, err
		}
	}
	var bc diffusion.BoundaryCondition
	if len(row) > colBoundary {
		bc = diffusion.BoundaryCondition(strings.ToLower(strings.TrimSpace(row[colBoundary])))
	}

	p := diffusion.Parameters{
		Temperature:          temperature,
		Time:                 t,
		DiffusionCoefficient: coefficient,
		InterfaceOffset:      offset,
		BoundaryCondition:    bc,
	}
	return p, p.Validate()
}

func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
