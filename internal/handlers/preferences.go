package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chefchat/chefchat/internal/models"
	"github.com/chefchat/chefchat/internal/preferences"
)

// PreferencesHandler handles dietary profile requests
type PreferencesHandler struct {
	repo *preferences.Repository
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(repo *preferences.Repository) *PreferencesHandler {
	return &PreferencesHandler{repo: repo}
}

// RegisterRoutes registers preference routes on the given router.
// The router should already have the /preferences prefix.
func (h *PreferencesHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.Get).Methods("GET")
	r.HandleFunc("", h.Put).Methods("PUT")
	r.HandleFunc("/{type}/tags", h.AddTag).Methods("POST")
	r.HandleFunc("/{type}/tags/{tag}", h.RemoveTag).Methods("DELETE")
}

// AddTagRequest carries one tag to append to a preference list
type AddTagRequest struct {
	Tag string `json:"tag" validate:"required,max=100"`
}

// Get returns the stored dietary profile; an empty profile when none exists
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.repo.Load(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load preferences")
		return
	}
	if prefs == nil {
		prefs = &models.UserPreferences{}
	}
	respondJSON(w, http.StatusOK, prefs)
}

// Put replaces the stored dietary profile
func (h *PreferencesHandler) Put(w http.ResponseWriter, r *http.Request) {
	var prefs models.UserPreferences
	if err := decodeJSON(r, &prefs); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}

	if err := h.repo.Save(r.Context(), &prefs); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save preferences")
		return
	}
	respondJSON(w, http.StatusOK, &prefs)
}

// AddTag appends a tag to the named preference list
func (h *PreferencesHandler) AddTag(w http.ResponseWriter, r *http.Request) {
	prefType := models.PreferenceType(mux.Vars(r)["type"])
	if !prefType.IsValid() {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Preference type must be habits, favorites, allergies, or trends")
		return
	}

	var req AddTagRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "tag is required")
		return
	}

	prefs, err := h.repo.AddTag(r.Context(), prefType, req.Tag)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save preferences")
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}

// RemoveTag deletes a tag from the named preference list
func (h *PreferencesHandler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	prefType := models.PreferenceType(vars["type"])
	if !prefType.IsValid() {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Preference type must be habits, favorites, allergies, or trends")
		return
	}

	prefs, err := h.repo.RemoveTag(r.Context(), prefType, vars["tag"])
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save preferences")
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}
