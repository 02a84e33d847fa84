package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/chefchat/chefchat/internal/conversation"
	"github.com/chefchat/chefchat/internal/models"
)

var validate = validator.New()

// ChatHandler handles chat session requests
type ChatHandler struct {
	chat *conversation.Service
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *conversation.Service) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// RegisterRoutes registers chat routes on the given router.
// The router should already have the /chat prefix.
func (h *ChatHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.OpenSession).Methods("POST")
	r.HandleFunc("/{id}/message", h.SendMessage).Methods("POST")
	r.HandleFunc("/{id}/option", h.SendOption).Methods("POST")
	r.HandleFunc("/{id}/action", h.SendAction).Methods("POST")
	r.HandleFunc("/{id}/messages", h.GetMessages).Methods("GET")
	r.HandleFunc("/{id}", h.CloseSession).Methods("DELETE")
}

// ChatMessageRequest represents a free-text chat message
type ChatMessageRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// ChatOptionRequest represents an option-button press
type ChatOptionRequest struct {
	Kind  string `json:"kind" validate:"required"`
	Value int    `json:"value"`
}

// ChatActionRequest represents a post-generation action
type ChatActionRequest struct {
	Action   string `json:"action" validate:"required"`
	RecipeID string `json:"recipeId,omitempty"`
}

// SessionResponse is the transcript and stage of a session
type SessionResponse struct {
	SessionID string           `json:"sessionId"`
	Stage     string           `json:"stage"`
	Messages  []models.Message `json:"messages"`
}

// OpenSession creates a new chat session
func (h *ChatHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chat.Open(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to open chat session")
		return
	}
	h.respondSession(w, session.ID, http.StatusCreated)
}

// SendMessage processes a free-text user message
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req ChatMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "message is required")
		return
	}

	if _, err := h.chat.HandleMessage(r.Context(), sessionID, req.Message); err != nil {
		h.respondChatError(w, err)
		return
	}
	h.respondSession(w, sessionID, http.StatusOK)
}

// SendOption processes an option-button press
func (h *ChatHandler) SendOption(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req ChatOptionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "kind is required")
		return
	}

	opt := conversation.Option{Kind: conversation.OptionKind(req.Kind), Value: req.Value}
	if _, err := h.chat.HandleOption(r.Context(), sessionID, opt); err != nil {
		h.respondChatError(w, err)
		return
	}
	h.respondSession(w, sessionID, http.StatusOK)
}

// SendAction runs a post-generation follow-up action
func (h *ChatHandler) SendAction(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req ChatActionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "action is required")
		return
	}

	if _, err := h.chat.HandleAction(r.Context(), sessionID, models.ActionKind(req.Action), req.RecipeID); err != nil {
		h.respondChatError(w, err)
		return
	}
	h.respondSession(w, sessionID, http.StatusOK)
}

// GetMessages returns the transcript; the client polls this while a
// generation is in flight
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	h.respondSession(w, mux.Vars(r)["id"], http.StatusOK)
}

// CloseSession drops the session
func (h *ChatHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	h.chat.Close(mux.Vars(r)["id"])
	respondJSON(w, http.StatusOK, map[string]any{"closed": true})
}

func (h *ChatHandler) respondSession(w http.ResponseWriter, sessionID string, status int) {
	messages, stage, err := h.chat.Messages(sessionID)
	if err != nil {
		h.respondChatError(w, err)
		return
	}
	respondJSON(w, status, SessionResponse{
		SessionID: sessionID,
		Stage:     string(stage),
		Messages:  messages,
	})
}

func (h *ChatHandler) respondChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, conversation.ErrSessionNotFound):
		respondJSONError(w, http.StatusNotFound, "Not Found", "Chat session not found")
	case errors.Is(err, conversation.ErrNoGeneratedRecipes):
		respondJSONError(w, http.StatusConflict, "Conflict", "No generated recipes in this session yet")
	default:
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}
