package importer

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"ThermoCalc/internal/calc/batch"
	"ThermoCalc/internal/calc/diffusion"
)

// MaxUploadSize bounds the multipart body of an import request.
const MaxUploadSize = 10 << 20

type Handler struct {
	Log     zerolog.Logger
	Workers int
	Observe func(kind string)
}

type DiffusionImportResult struct {
	Count   int                `json:"count"`
	Skipped int                `json:"skipped"`
	Results []diffusion.Result `json:"results"`
}

func (h *Handler) Diffusion(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		http.Error(w, "Empty sheet", http.StatusBadRequest)
		return
	}

	params, skipped := ParseRows(rows[1:])
	out := DiffusionImportResult{Skipped: skipped, Results: []diffusion.Result{}}
	if len(params) > 0 {
		res, err := batch.Diffusion(r.Context(), params, h.Workers)
		if err != nil && !errors.Is(err, batch.ErrNoItems) {
			h.Log.Error().Err(err).Str("sheet", sheet).Msg("diffusion import failed")
			http.Error(w, "Calculation error", http.StatusInternalServerError)
			return
		}
		out.Results = res
	}
	out.Count = len(out.Results)
	if h.Observe != nil {
		for range out.Results {
			h.Observe("diffusion")
		}
	}
	h.Log.Info().Str("sheet", sheet).Int("count", out.Count).Int("skipped", skipped).Msg("diffusion sheet imported")

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		h.Log.Error().Err(err).Msg("encode diffusion import")
	}
}
