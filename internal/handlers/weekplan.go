package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chefchat/chefchat/internal/models"
	"github.com/chefchat/chefchat/internal/weekplan"
)

// WeekPlanHandler handles week plan requests
type WeekPlanHandler struct {
	repo *weekplan.Repository
}

// NewWeekPlanHandler creates a new week plan handler
func NewWeekPlanHandler(repo *weekplan.Repository) *WeekPlanHandler {
	return &WeekPlanHandler{repo: repo}
}

// RegisterRoutes registers week plan routes on the given router.
// The router should already have the /week-plans prefix.
func (h *WeekPlanHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListAll).Methods("GET")
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("/{id}/recipes", h.DistributeRecipes).Methods("POST")
	r.HandleFunc("/{id}/recipes/move", h.MoveRecipe).Methods("POST")
	r.HandleFunc("/{id}/days/{day}/recipes/{recipeID}", h.DeleteRecipe).Methods("DELETE")
}

// CreatePlanRequest asks for the plan of the week weeksAhead weeks from now
type CreatePlanRequest struct {
	WeeksAhead int `json:"weeksAhead" validate:"gte=0,lte=52"`
}

// DistributeRecipesRequest carries recipes to spread across the week
type DistributeRecipesRequest struct {
	Recipes []models.Recipe `json:"recipes" validate:"required,min=1,dive"`
}

// MoveRecipeRequest relocates a recipe between days
type MoveRecipeRequest struct {
	From     string `json:"from" validate:"required"`
	To       string `json:"to" validate:"required"`
	RecipeID string `json:"recipeId" validate:"required"`
}

// ListAll returns every week plan
func (h *WeekPlanHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	plans, err := h.repo.All(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load week plans")
		return
	}
	if plans == nil {
		plans = []models.WeekPlan{}
	}
	respondJSON(w, http.StatusOK, plans)
}

// Create returns the plan for the requested week, creating it when absent
func (h *WeekPlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePlanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "weeksAhead must be between 0 and 52")
		return
	}

	plan, err := h.repo.CreateForWeek(r.Context(), req.WeeksAhead)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create week plan")
		return
	}
	respondJSON(w, http.StatusCreated, plan)
}

// DistributeRecipes spreads recipes across the plan's days
func (h *WeekPlanHandler) DistributeRecipes(w http.ResponseWriter, r *http.Request) {
	var req DistributeRecipesRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "recipes must be a non-empty array")
		return
	}

	plan, err := h.repo.DistributeRecipesToPlan(r.Context(), mux.Vars(r)["id"], req.Recipes)
	if err != nil {
		h.respondPlanError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

// MoveRecipe relocates a recipe between days
func (h *WeekPlanHandler) MoveRecipe(w http.ResponseWriter, r *http.Request) {
	var req MoveRecipeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "from, to, and recipeId are required")
		return
	}

	plan, err := h.repo.MoveRecipe(r.Context(), mux.Vars(r)["id"],
		models.Weekday(req.From), models.Weekday(req.To), req.RecipeID)
	if err != nil {
		h.respondPlanError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

// DeleteRecipe removes a recipe from the named day
func (h *WeekPlanHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	plan, err := h.repo.DeleteRecipe(r.Context(), vars["id"], models.Weekday(vars["day"]), vars["recipeID"])
	if err != nil {
		h.respondPlanError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

func (h *WeekPlanHandler) respondPlanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, weekplan.ErrPlanNotFound):
		respondJSONError(w, http.StatusNotFound, "Not Found", "Week plan not found")
	case errors.Is(err, weekplan.ErrRecipeNotFound):
		respondJSONError(w, http.StatusNotFound, "Not Found", "Recipe not found in week plan")
	case errors.Is(err, weekplan.ErrInvalidDay):
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Day must be monday through sunday")
	default:
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Storage operation failed")
	}
}
