package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chefchat/chefchat/internal/models"
	"github.com/chefchat/chefchat/internal/shopping"
)

// ShoppingHandler handles shopping list requests
type ShoppingHandler struct {
	repo *shopping.Repository
}

// NewShoppingHandler creates a new shopping list handler
func NewShoppingHandler(repo *shopping.Repository) *ShoppingHandler {
	return &ShoppingHandler{repo: repo}
}

// RegisterRoutes registers shopping list routes on the given router.
// The router should already have the /shopping-lists prefix.
func (h *ShoppingHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListAll).Methods("GET")
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("/{id}/items", h.AddIngredients).Methods("POST")
	r.HandleFunc("/{id}/items", h.DeleteAllItems).Methods("DELETE")
	r.HandleFunc("/{id}/items/{itemID}/toggle", h.ToggleItem).Methods("POST")
	r.HandleFunc("/{id}/items/{itemID}/move", h.MoveItem).Methods("POST")
	r.HandleFunc("/{id}/items/{itemID}", h.DeleteItem).Methods("DELETE")
}

// CreateListRequest asks for the list of the week weeksAhead weeks from now
type CreateListRequest struct {
	WeeksAhead int `json:"weeksAhead" validate:"gte=0,lte=52"`
}

// AddIngredientsRequest carries ingredients to merge into a list
type AddIngredientsRequest struct {
	Ingredients []models.Ingredient `json:"ingredients" validate:"required,min=1,dive"`
}

// MoveItemRequest names the category an item moves to
type MoveItemRequest struct {
	Category string `json:"category" validate:"required"`
}

// ListAll returns every shopping list
func (h *ShoppingHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	lists, err := h.repo.All(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load shopping lists")
		return
	}
	if lists == nil {
		lists = []models.ShoppingList{}
	}
	respondJSON(w, http.StatusOK, lists)
}

// Create returns the list for the requested week, creating it when absent
func (h *ShoppingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateListRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "weeksAhead must be between 0 and 52")
		return
	}

	list, err := h.repo.CreateForWeek(r.Context(), req.WeeksAhead)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create shopping list")
		return
	}
	respondJSON(w, http.StatusCreated, list)
}

// AddIngredients merges ingredients into the named list
func (h *ShoppingHandler) AddIngredients(w http.ResponseWriter, r *http.Request) {
	var req AddIngredientsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "ingredients must be a non-empty array")
		return
	}

	list, err := h.repo.AddIngredientsToList(r.Context(), mux.Vars(r)["id"], req.Ingredients)
	if err != nil {
		h.respondShoppingError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// ToggleItem flips an item's checked state
func (h *ShoppingHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	list, err := h.repo.ToggleItem(r.Context(), vars["id"], vars["itemID"])
	if err != nil {
		h.respondShoppingError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// DeleteItem removes one item from the list
func (h *ShoppingHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	list, err := h.repo.DeleteItem(r.Context(), vars["id"], vars["itemID"])
	if err != nil {
		h.respondShoppingError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// DeleteAllItems clears the list
func (h *ShoppingHandler) DeleteAllItems(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.DeleteAllItems(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondShoppingError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// MoveItem relocates an item to another category
func (h *ShoppingHandler) MoveItem(w http.ResponseWriter, r *http.Request) {
	var req MoveItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "category is required")
		return
	}

	vars := mux.Vars(r)
	list, err := h.repo.MoveItemToCategory(r.Context(), vars["id"], vars["itemID"], models.IngredientCategory(req.Category))
	if err != nil {
		h.respondShoppingError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *ShoppingHandler) respondShoppingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shopping.ErrListNotFound):
		respondJSONError(w, http.StatusNotFound, "Not Found", "Shopping list not found")
	case errors.Is(err, shopping.ErrItemNotFound):
		respondJSONError(w, http.StatusNotFound, "Not Found", "Shopping list item not found")
	default:
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Storage operation failed")
	}
}
