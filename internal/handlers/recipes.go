package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chefchat/chefchat/internal/models"
	"github.com/chefchat/chefchat/internal/recipes"
)

// RecipesHandler handles recipe read requests and the current-recipe pointer
type RecipesHandler struct {
	repo *recipes.Repository
}

// NewRecipesHandler creates a new recipes handler
func NewRecipesHandler(repo *recipes.Repository) *RecipesHandler {
	return &RecipesHandler{repo: repo}
}

// RegisterRoutes registers recipe routes on the given router.
// The router should already have the /recipes prefix.
func (h *RecipesHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListAll).Methods("GET")
	r.HandleFunc("/current", h.GetCurrent).Methods("GET")
	r.HandleFunc("/current", h.PutCurrent).Methods("PUT")
	r.HandleFunc("/{id}", h.GetByID).Methods("GET")
}

// ListAll returns the distinct recipes across all week plans
func (h *RecipesHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.All(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load recipes")
		return
	}
	if all == nil {
		all = []models.Recipe{}
	}
	respondJSON(w, http.StatusOK, all)
}

// GetByID returns one recipe
func (h *RecipesHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.repo.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, recipes.ErrRecipeNotFound) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Recipe not found")
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load recipe")
		return
	}
	respondJSON(w, http.StatusOK, recipe)
}

// GetCurrent returns the recipe the user is cooking
func (h *RecipesHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.repo.Current(r.Context())
	if err != nil {
		if errors.Is(err, recipes.ErrNoCurrentRecipe) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "No current recipe set")
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load current recipe")
		return
	}
	respondJSON(w, http.StatusOK, recipe)
}

// PutCurrent sets the recipe the user is cooking
func (h *RecipesHandler) PutCurrent(w http.ResponseWriter, r *http.Request) {
	var recipe models.Recipe
	if err := decodeJSON(r, &recipe); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if recipe.ID == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Recipe id is required")
		return
	}

	if err := h.repo.SetCurrent(r.Context(), &recipe); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save current recipe")
		return
	}
	respondJSON(w, http.StatusOK, &recipe)
}
