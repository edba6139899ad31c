package batch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

type Handler struct {
	Log     zerolog.Logger
	Workers int
	Observe func(kind string)
}

func (h *Handler) Diffusion(w http.ResponseWriter, r *http.Request) {
	var input DiffusionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Diffusion(r.Context(), input.Parameters(), h.Workers)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		h.Log.Debug().Err(err).Int("items", len(input.Items)).Msg("diffusion batch rejected")
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	if h.Observe != nil {
		for range res {
			h.Observe("diffusion")
		}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(DiffusionResult{Results: res}); err != nil {
		h.Log.Error().Err(err).Msg("encode diffusion batch")
	}
}
