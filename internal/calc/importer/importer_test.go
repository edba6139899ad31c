package importer_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ThermoCalc/internal/calc/diffusion"
	"ThermoCalc/internal/calc/importer"
)

func TestParseRows(t *testing.T) {
	rows := [][]string{
		{"1200", "3600", "1e-12"},
		{"900", "7200", "2E-13", "15", " Flux "},
		{"", "", ""},
		{"1200", "abc", "1e-12"},
		{"1200", "3600"},
		{"1200", "3600", "1e-12", "", "reflecting"},
		{"1200", "3600", "NaN"},
	}
	params, skipped := importer.ParseRows(rows)
	assert.Equal(t, 4, skipped)
	require.Len(t, params, 2)

	assert.Equal(t, diffusion.Parameters{Temperature: 1200, Time: 3600, DiffusionCoefficient: 1e-12}, params[0])
	assert.Equal(t, diffusion.Parameters{
		Temperature:          900,
		Time:                 7200,
		DiffusionCoefficient: 2e-13,
		InterfaceOffset:      15,
		BoundaryCondition:    diffusion.BoundaryFlux,
	}, params[1])
}

func TestParseRowsEmpty(t *testing.T) {
	params, skipped := importer.ParseRows(nil)
	assert.Empty(t, params)
	assert.Zero(t, skipped)
}

func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func upload(t *testing.T, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "profiles.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/tools/diffusion/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandlerDiffusion(t *testing.T) {
	content := workbook(t, [][]any{
		{"temperature", "time", "diffusion_coefficient", "interface_position", "boundary_condition"},
		{1200, 3600, 1e-12, 0, "fixed"},
		{1000, 900, 1e-12},
		{"x", 1, 1},
	})

	observed := 0
	h := &importer.Handler{Observe: func(string) { observed++ }}
	rec := httptest.NewRecorder()
	h.Diffusion(rec, upload(t, content))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp importer.DiffusionImportResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 1, resp.Skipped)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 120.0, resp.Results[0].PenetrationDepthMicrometers)
	assert.Equal(t, 60.0, resp.Results[1].PenetrationDepthMicrometers)
	assert.Equal(t, 2, observed)
}

func TestHandlerRejects(t *testing.T) {
	h := &importer.Handler{}

	rec := httptest.NewRecorder()
	h.Diffusion(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Diffusion(rec, upload(t, []byte("not a workbook")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Diffusion(rec, upload(t, workbook(t, [][]any{{"temperature", "time", "diffusion_coefficient"}})))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
