package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/chefchat/chefchat/internal/conversation"
	"github.com/chefchat/chefchat/internal/models"
	"github.com/chefchat/chefchat/internal/preferences"
	"github.com/chefchat/chefchat/internal/recipes"
	"github.com/chefchat/chefchat/internal/services/ai"
	"github.com/chefchat/chefchat/internal/shopping"
	"github.com/chefchat/chefchat/internal/store"
	"github.com/chefchat/chefchat/internal/weekplan"
)

type stubProvider struct{}

func (stubProvider) ClassifyCookingRelated(ctx context.Context, text string) (*ai.Classification, error) {
	return &ai.Classification{IsCookingRelated: true}, nil
}

func (stubProvider) GenerateRecipes(ctx context.Context, req ai.GenerationRequest) ([]models.Recipe, error) {
	return []models.Recipe{{ID: "r1", Title: "Test Dish", Time: "20 min"}}, nil
}

func (stubProvider) ExtractPreferences(ctx context.Context, text string) (*models.UserPreferences, error) {
	return &models.UserPreferences{}, nil
}

type testEnv struct {
	router *mux.Router
	store  *store.MemoryStore
	plans  *weekplan.Repository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ms := store.NewMemoryStore()
	logger := zap.NewNop()

	prefsRepo := preferences.NewRepository(ms, logger)
	shoppingRepo := shopping.NewRepository(ms, logger, shopping.OverwriteStrategy{})
	planRepo := weekplan.NewRepository(ms, logger)
	recipeRepo := recipes.NewRepository(ms, planRepo, logger)
	chatService := conversation.NewService(stubProvider{}, prefsRepo, shoppingRepo, planRepo, recipeRepo, logger, time.Second)

	router := mux.NewRouter()
	router.HandleFunc("/health", NewHealthChecker(ms).HealthCheck).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	NewChatHandler(chatService).RegisterRoutes(api.PathPrefix("/chat").Subrouter())
	NewShoppingHandler(shoppingRepo).RegisterRoutes(api.PathPrefix("/shopping-lists").Subrouter())
	NewWeekPlanHandler(planRepo).RegisterRoutes(api.PathPrefix("/week-plans").Subrouter())
	NewPreferencesHandler(prefsRepo).RegisterRoutes(api.PathPrefix("/preferences").Subrouter())
	NewRecipesHandler(recipeRepo).RegisterRoutes(api.PathPrefix("/recipes").Subrouter())

	return &testEnv{router: router, store: ms, plans: planRepo}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, r)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	if data != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return env
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	rec := e.do(t, "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = e.do(t, "GET", "/health?mode=extended", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("extended status = %d, want 200", rec.Code)
	}

	e.store.FailPings = true
	e.store.FailWith(fmt.Errorf("connection refused"))
	rec = e.do(t, "GET", "/health?mode=extended", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("extended status with failing store = %d, want 503", rec.Code)
	}
}

func TestShoppingListLifecycle(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)

	rec := e.do(t, "POST", "/api/v1/shopping-lists", map[string]any{"weeksAhead": 0})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var list models.ShoppingList
	decodeEnvelope(t, rec, &list)
	if list.ID == "" {
		t.Fatal("created list has no id")
	}

	rec = e.do(t, "POST", "/api/v1/shopping-lists/"+list.ID+"/items", map[string]any{
		"ingredients": []map[string]any{
			{"name": "Tomatoes", "amount": "3", "unit": "pcs", "category": "produce"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add items status = %d: %s", rec.Code, rec.Body.String())
	}
	decodeEnvelope(t, rec, &list)
	if list.ItemCount() != 1 {
		t.Fatalf("item count = %d, want 1", list.ItemCount())
	}
	itemID := list.Categories[0].Items[0].ID

	rec = e.do(t, "POST", "/api/v1/shopping-lists/"+list.ID+"/items/"+itemID+"/toggle", map[string]any{})
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", rec.Code)
	}
	decodeEnvelope(t, rec, &list)
	if !list.Categories[0].Items[0].Checked {
		t.Error("item not checked after toggle")
	}

	rec = e.do(t, "POST", "/api/v1/shopping-lists/"+list.ID+"/items/"+itemID+"/move", map[string]any{"category": "other"})
	if rec.Code != http.StatusOK {
		t.Fatalf("move status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, "DELETE", "/api/v1/shopping-lists/"+list.ID+"/items/"+itemID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	decodeEnvelope(t, rec, &list)
	if list.ItemCount() != 0 {
		t.Errorf("item count = %d after delete", list.ItemCount())
	}

	rec = e.do(t, "GET", "/api/v1/shopping-lists", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
}

func TestShoppingListErrors(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)

	rec := e.do(t, "POST", "/api/v1/shopping-lists/nope/items", map[string]any{
		"ingredients": []map[string]any{{"name": "x", "amount": "1"}},
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing list status = %d, want 404", rec.Code)
	}

	rec = e.do(t, "POST", "/api/v1/shopping-lists", map[string]any{"weeksAhead": 99})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("out-of-range weeksAhead status = %d, want 400", rec.Code)
	}
}

func TestWeekPlanLifecycle(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)

	rec := e.do(t, "POST", "/api/v1/week-plans", map[string]any{"weeksAhead": 0})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var plan models.WeekPlan
	decodeEnvelope(t, rec, &plan)

	rec = e.do(t, "POST", "/api/v1/week-plans/"+plan.ID+"/recipes", map[string]any{
		"recipes": []map[string]any{
			{"id": "r1", "title": "Curry"},
			{"id": "r2", "title": "Soup"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("distribute status = %d: %s", rec.Code, rec.Body.String())
	}
	decodeEnvelope(t, rec, &plan)
	if len(plan.Days[models.Monday]) != 1 || len(plan.Days[models.Tuesday]) != 1 {
		t.Errorf("distribution wrong: %+v", plan.Days)
	}

	rec = e.do(t, "POST", "/api/v1/week-plans/"+plan.ID+"/recipes/move", map[string]any{
		"from": "monday", "to": "friday", "recipeId": "r1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("move status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, "DELETE", "/api/v1/week-plans/"+plan.ID+"/days/friday/recipes/r1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, "DELETE", "/api/v1/week-plans/"+plan.ID+"/days/someday/recipes/r2", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad day status = %d, want 400", rec.Code)
	}
}

func TestPreferencesEndpoints(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)

	var prefs models.UserPreferences
	rec := e.do(t, "GET", "/api/v1/preferences", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	decodeEnvelope(t, rec, &prefs)
	if !prefs.Empty() {
		t.Errorf("fresh profile not empty: %+v", prefs)
	}

	rec = e.do(t, "PUT", "/api/v1/preferences", models.UserPreferences{Habits: []string{"vegetarian"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d", rec.Code)
	}

	rec = e.do(t, "POST", "/api/v1/preferences/allergies/tags", map[string]any{"tag": "nuts"})
	if rec.Code != http.StatusOK {
		t.Fatalf("add tag status = %d: %s", rec.Code, rec.Body.String())
	}
	decodeEnvelope(t, rec, &prefs)
	if len(prefs.Allergies) != 1 || prefs.Allergies[0] != "nuts" {
		t.Errorf("allergies = %v", prefs.Allergies)
	}

	rec = e.do(t, "DELETE", "/api/v1/preferences/allergies/tags/nuts", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove tag status = %d", rec.Code)
	}
	decodeEnvelope(t, rec, &prefs)
	if len(prefs.Allergies) != 0 {
		t.Errorf("allergies = %v after removal", prefs.Allergies)
	}

	rec = e.do(t, "POST", "/api/v1/preferences/moods/tags", map[string]any{"tag": "spicy"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad type status = %d, want 400", rec.Code)
	}
}

func TestRecipesEndpoints(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	ctx := context.Background()

	if _, err := e.plans.DistributeRecipes(ctx, []models.Recipe{
		{ID: "r1", Title: "Ramen", Time: "30 min"},
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	var all []models.Recipe
	rec := e.do(t, "GET", "/api/v1/recipes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	decodeEnvelope(t, rec, &all)
	if len(all) != 1 {
		t.Fatalf("got %d recipes, want 1", len(all))
	}

	rec = e.do(t, "GET", "/api/v1/recipes/r1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = e.do(t, "GET", "/api/v1/recipes/current", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("current before set status = %d, want 404", rec.Code)
	}

	rec = e.do(t, "PUT", "/api/v1/recipes/current", models.Recipe{ID: "r1", Title: "Ramen"})
	if rec.Code != http.StatusOK {
		t.Fatalf("put current status = %d", rec.Code)
	}

	var current models.Recipe
	rec = e.do(t, "GET", "/api/v1/recipes/current", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get current status = %d", rec.Code)
	}
	decodeEnvelope(t, rec, &current)
	if current.ID != "r1" {
		t.Errorf("current = %+v", current)
	}
}

func TestChatSessionFlow(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)

	var session SessionResponse
	rec := e.do(t, "POST", "/api/v1/chat", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("open status = %d: %s", rec.Code, rec.Body.String())
	}
	decodeEnvelope(t, rec, &session)
	if session.SessionID == "" || len(session.Messages) != 1 {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.Stage != "initial" {
		t.Errorf("stage = %s, want initial on fresh install", session.Stage)
	}

	rec = e.do(t, "POST", "/api/v1/chat/"+session.SessionID+"/message",
		map[string]any{"message": "I love pasta, no allergies"})
	if rec.Code != http.StatusOK {
		t.Fatalf("message status = %d: %s", rec.Code, rec.Body.String())
	}
	decodeEnvelope(t, rec, &session)
	if session.Stage != "recipe_request" {
		t.Errorf("stage = %s, want recipe_request", session.Stage)
	}

	rec = e.do(t, "GET", "/api/v1/chat/"+session.SessionID+"/messages", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("transcript status = %d", rec.Code)
	}

	rec = e.do(t, "POST", "/api/v1/chat/"+session.SessionID+"/message", map[string]any{"message": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty message status = %d, want 400", rec.Code)
	}

	rec = e.do(t, "POST", "/api/v1/chat/missing-session/message", map[string]any{"message": "hi"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing session status = %d, want 404", rec.Code)
	}

	rec = e.do(t, "DELETE", "/api/v1/chat/"+session.SessionID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("close status = %d", rec.Code)
	}
	rec = e.do(t, "GET", "/api/v1/chat/"+session.SessionID+"/messages", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("closed session status = %d, want 404", rec.Code)
	}
}

func TestChatSurpriseMeOption(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)

	var session SessionResponse
	rec := e.do(t, "POST", "/api/v1/chat", nil)
	decodeEnvelope(t, rec, &session)

	rec = e.do(t, "POST", "/api/v1/chat/"+session.SessionID+"/option",
		map[string]any{"kind": "surprise_me"})
	if rec.Code != http.StatusOK {
		t.Fatalf("option status = %d: %s", rec.Code, rec.Body.String())
	}
	decodeEnvelope(t, rec, &session)
	if session.Stage != "recipe_count" {
		t.Errorf("stage = %s, want recipe_count after surprise me", session.Stage)
	}
}
