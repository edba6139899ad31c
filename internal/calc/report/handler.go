package report

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"ThermoCalc/internal/calc/diffusion"
)

type Input struct {
	Meta
	Parameters diffusion.Request `json:"parameters"`
}

type Handler struct {
	Log zerolog.Logger
	Now func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (Input, diffusion.Parameters, diffusion.Result, bool) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return Input{}, diffusion.Parameters{}, diffusion.Result{}, false
	}
	params := input.Parameters.Parameters()
	res, err := diffusion.Calculate(params)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return Input{}, diffusion.Parameters{}, diffusion.Result{}, false
	}
	return input, params, res, true
}

func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	input, params, res, ok := h.decode(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := WritePDF(&buf, input.Meta, params, res, h.now()); err != nil {
		h.Log.Error().Err(err).Msg("diffusion pdf report")
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"diffusion-report.pdf\"")
	buf.WriteTo(w)
}

func (h *Handler) XLSX(w http.ResponseWriter, r *http.Request) {
	_, params, res, ok := h.decode(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, params, res); err != nil {
		h.Log.Error().Err(err).Msg("diffusion xlsx export")
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"diffusion-profile.xlsx\"")
	buf.WriteTo(w)
}
