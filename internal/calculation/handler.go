package calculation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"ThermoCalc/internal/calc/diffusion"
	"ThermoCalc/internal/repo"
)

// StandardPressure is recorded with saved diffusion runs.
const StandardPressure = 101325.0 // Pa

type Handler struct {
	Repo    repo.Repository
	Log     zerolog.Logger
	Observe func(kind string)
}

// DiffusionRequest computes a profile and stores it as a completed
// calculation. At least two elements are required.
type DiffusionRequest struct {
	ProjectID  *string           `json:"project_id"`
	Elements   []string          `json:"elements"`
	Parameters diffusion.Request `json:"parameters"`
}

// StoredDiffusion is the results blob of a saved diffusion calculation.
type StoredDiffusion struct {
	diffusion.Result
	Summary diffusion.Summary `json:"summary"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	calcs, err := h.Repo.ListCalculations(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, calcs)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Repo.GetCalculation(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input repo.Calculation
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	c, err := h.Repo.CreateCalculation(r.Context(), input)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.Log.Info().Str("calculation", c.ID).Str("type", string(c.CalculationType)).Msg("calculation saved")
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) Diffusion(w http.ResponseWriter, r *http.Request) {
	var input DiffusionRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if len(input.Elements) < 2 {
		http.Error(w, "Please select at least 2 elements for diffusion simulation", http.StatusBadRequest)
		return
	}
	params := input.Parameters.Parameters()
	res, err := diffusion.Calculate(params)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	if h.Observe != nil {
		h.Observe("diffusion")
	}

	results, err := json.Marshal(StoredDiffusion{Result: res, Summary: res.Summary()})
	if err != nil {
		h.fail(w, err)
		return
	}
	record := NewDiffusionRecord(input.ProjectID, input.Elements, params.Temperature, params.Time, results)
	c, err := h.Repo.CreateCalculation(r.Context(), record)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.Log.Info().Str("calculation", c.ID).Msg("diffusion simulation saved")
	writeJSON(w, http.StatusCreated, c)
}

// NewDiffusionRecord builds the calculation row for a diffusion run at a
// single temperature.
func NewDiffusionRecord(projectID *string, elements []string, temperature, seconds float64, results json.RawMessage) repo.Calculation {
	pressure := StandardPressure
	return repo.Calculation{
		ProjectID:       projectID,
		CalculationType: repo.TypeDiffusion,
		Title: fmt.Sprintf("Diffusion Simulation - %s at %sK",
			strings.Join(elements, "-"), strconv.FormatFloat(temperature, 'f', -1, 64)),
		Elements:         elements,
		TemperatureRange: &repo.TemperatureRange{Min: &temperature, Max: &temperature, Unit: "K"},
		Pressure:         &pressure,
		Composition:      map[string]float64{"time": seconds},
		Results:          results,
		Status:           repo.StatusCompleted,
	}
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		http.Error(w, "Calculation not found", http.StatusNotFound)
	case errors.Is(err, repo.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.Log.Error().Err(err).Msg("calculation store")
		http.Error(w, "DB error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
