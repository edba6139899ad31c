package phasediagram

import (
	"encoding/json"
	"net/http"

	"ThermoCalc/internal/calc/seed"
)

type Request struct {
	Input
	Seed *uint64 `json:"seed"`
}

type Response struct {
	Seed uint64 `json:"seed"`
	Result
}

type Handler struct {
	Observe func(kind string)
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Request
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	s := seed.Resolve(input.Seed)
	res, err := Generate(input.Input, seed.New(s))
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	if h.Observe != nil {
		h.Observe("phase_diagram")
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{Seed: s, Result: res})
}
