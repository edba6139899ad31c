package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/xuri/excelize/v2"

	"ThermoCalc/internal/calc/diffusion"
)

// TableStride is the sample interval of the printed profile table.
const TableStride = 10

const (
	SummarySheet = "Summary"
	ProfileSheet = "Profile"
)

type Meta struct {
	Title    string   `json:"title"`
	Project  string   `json:"project"`
	Author   string   `json:"author"`
	Elements []string `json:"elements"`
}

// WritePDF renders a one-page diffusion report: the inputs, the summary
// metrics and every TableStride-th profile sample.
func WritePDF(w io.Writer, meta Meta, in diffusion.Parameters, res diffusion.Result, now time.Time) error {
	if meta.Title == "" {
		meta.Title = "Diffusion Report"
	}
	display := diffusion.Format(res.Summary(), &in.Time)

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(meta.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Project: %s", meta.Project)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Author: %s", meta.Author)))
	pdf.Ln(6)
	if len(meta.Elements) > 0 {
		pdf.Cell(0, 6, tr(fmt.Sprintf("System: %s", strings.Join(meta.Elements, "-"))))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", now.Format("2006-01-02")))
	pdf.Ln(10)

	section(pdf, "Parameters")
	for _, row := range parameterRows(in, res) {
		pdf.Cell(70, 6, tr(row[0]))
		pdf.Cell(0, 6, tr(row[1]))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	section(pdf, "Results")
	for _, row := range [][2]string{
		{"Penetration depth", display.PenetrationDepth},
		{"Surface flux (wt%·m/s)", display.FluxRate},
		{"Interface concentration", display.InterfaceConcentration},
		{"Elapsed time (h)", display.ElapsedHours},
	} {
		pdf.Cell(70, 6, tr(row[0]))
		pdf.Cell(0, 6, tr(row[1]))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	section(pdf, "Concentration profile")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 6, tr("Position (µm)"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Concentration (wt%)", "1", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for i := 0; i < len(res.Profile); i += TableStride {
		p := res.Profile[i]
		pdf.CellFormat(40, 6, strconv.FormatFloat(p.Position, 'f', 1, 64), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, strconv.FormatFloat(p.Concentration, 'f', 2, 64), "1", 1, "R", false, 0, "")
	}

	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
}

func parameterRows(in diffusion.Parameters, res diffusion.Result) [][2]string {
	return [][2]string{
		{"Temperature (K)", strconv.FormatFloat(in.Temperature, 'f', -1, 64)},
		{"Time (s)", strconv.FormatFloat(in.Time, 'f', -1, 64)},
		{"Diffusion coefficient (m²/s)", diffusion.FormatExponential(in.DiffusionCoefficient, 2)},
		{"Interface position (µm)", strconv.FormatFloat(in.InterfaceOffset, 'f', -1, 64)},
		{"Boundary condition", string(res.BoundaryCondition)},
	}
}

// WriteXLSX writes a workbook with a Summary sheet of inputs and metrics and
// a Profile sheet holding every sample.
func WriteXLSX(w io.Writer, in diffusion.Parameters, res diffusion.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return err
	}
	summary := [][]any{{"Parameter", "Value"}}
	for _, row := range parameterRows(in, res) {
		summary = append(summary, []any{row[0], row[1]})
	}
	summary = append(summary,
		[]any{"Penetration depth (µm)", res.PenetrationDepthMicrometers},
		[]any{"Surface flux (wt%·m/s)", res.SurfaceFluxMagnitude},
		[]any{"Interface concentration (wt%)", res.InterfaceConcentration},
	)
	if err := writeRows(f, SummarySheet, summary); err != nil {
		return err
	}

	if _, err := f.NewSheet(ProfileSheet); err != nil {
		return err
	}
	profile := make([][]any, 0, len(res.Profile)+1)
	profile = append(profile, []any{"Position (µm)", "Concentration (wt%)"})
	for _, p := range res.Profile {
		profile = append(profile, []any{p.Position, p.Concentration})
	}
	if err := writeRows(f, ProfileSheet, profile); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
