package diffusion

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// Request mirrors Parameters with optional fields so that omitted values
// fall back to the page defaults instead of zero.
type Request struct {
	Temperature          *float64          `json:"temperature"`
	Time                 *float64          `json:"time"`
	DiffusionCoefficient *float64          `json:"diffusion_coefficient"`
	InterfaceOffset      *float64          `json:"interface_position"`
	BoundaryCondition    BoundaryCondition `json:"boundary_condition"`
}

func (r Request) Parameters() Parameters {
	p := Parameters{
		Temperature:          DefaultTemperature,
		Time:                 DefaultTime,
		DiffusionCoefficient: DefaultCoefficient,
		BoundaryCondition:    r.BoundaryCondition,
	}
	if r.Temperature != nil {
		p.Temperature = *r.Temperature
	}
	if r.Time != nil {
		p.Time = *r.Time
	}
	if r.DiffusionCoefficient != nil {
		p.DiffusionCoefficient = *r.DiffusionCoefficient
	}
	if r.InterfaceOffset != nil {
		p.InterfaceOffset = *r.InterfaceOffset
	}
	return p
}

type DisplayRequest struct {
	Results Summary  `json:"results"`
	Time    *float64 `json:"time"`
}

type Handler struct {
	Log zerolog.Logger
	// Observe is called after every successful calculation, if set.
	Observe func(kind string)
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Request
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(input.Parameters())
	if err != nil {
		h.Log.Debug().Err(err).Msg("diffusion calculation rejected")
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	if h.Observe != nil {
		h.Observe("diffusion")
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		h.Log.Error().Err(err).Msg("encode diffusion result")
	}
}

func (h *Handler) Display(w http.ResponseWriter, r *http.Request) {
	var input DisplayRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(Format(input.Results, input.Time)); err != nil {
		h.Log.Error().Err(err).Msg("encode diffusion display")
	}
}
