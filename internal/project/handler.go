package project

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"ThermoCalc/internal/repo"
)

type Handler struct {
	Repo repo.Repository
	Log  zerolog.Logger
}

type CreateRequest struct {
	Name        string             `json:"name"`
	Description *string            `json:"description"`
	SystemType  repo.SystemType    `json:"system_type"`
	Elements    []string           `json:"elements"`
	Status      repo.ProjectStatus `json:"status"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Repo.ListProjects(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Repo.GetProject(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	p, err := h.Repo.CreateProject(r.Context(), repo.Project{
		Name:        input.Name,
		Description: input.Description,
		SystemType:  input.SystemType,
		Elements:    input.Elements,
		Status:      input.Status,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	h.Log.Info().Str("project", p.ID).Msg("project created")
	writeJSON(w, http.StatusCreated, p)
}

// Update applies a partial update; PUT and PATCH behave the same.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var patch repo.ProjectPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	p, err := h.Repo.UpdateProject(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Repo.DeleteProject(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	h.Log.Info().Str("project", id).Msg("project deleted")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		http.Error(w, "Project not found", http.StatusNotFound)
	case errors.Is(err, repo.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.Log.Error().Err(err).Msg("project store")
		http.Error(w, "DB error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
