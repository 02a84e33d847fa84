package conversation

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chefchat/chefchat/internal/models"
	"github.com/chefchat/chefchat/internal/preferences"
	"github.com/chefchat/chefchat/internal/recipes"
	"github.com/chefchat/chefchat/internal/services/ai"
	"github.com/chefchat/chefchat/internal/shopping"
	"github.com/chefchat/chefchat/internal/weekplan"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned when no session matches the given id
var ErrSessionNotFound = errors.New("chat session not found")

// ErrNoGeneratedRecipes is returned when a post-generation action runs
// before any recipes have been generated in the session
var ErrNoGeneratedRecipes = errors.New("no generated recipes in session")

// cuisines feeds the "surprise me" shortcut
var cuisines = []string{
	"asian",
	"italian",
	"mediterranean",
	"german",
	"mexican",
	"vegetarian",
	"quick and easy",
}

// Session is one chat conversation: the transcript, the stage, and the
// slots collected on the way to generation. All fields are guarded by mu.
type Session struct {
	ID string

	mu          sync.Mutex
	stage       Stage
	messages    []models.Message
	requestText string
	recipeCount int
	servings    int
	generated   []models.Recipe
	generating  bool
	genDone     chan struct{}
}

// Service owns the chat sessions and wires the conversation to the
// preference store, the engines, and the recipe generation provider.
type Service struct {
	provider ai.Provider
	prefs    *preferences.Repository
	shopping *shopping.Repository
	plans    *weekplan.Repository
	recipes  *recipes.Repository
	logger   *zap.Logger

	genTimeout       time.Duration
	progressInterval func(recipeCount int) time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates a conversation service. genTimeout bounds each real
// generation call; zero falls back to the provider default.
func NewService(
	provider ai.Provider,
	prefs *preferences.Repository,
	shoppingRepo *shopping.Repository,
	plans *weekplan.Repository,
	recipeRepo *recipes.Repository,
	logger *zap.Logger,
	genTimeout time.Duration,
) *Service {
	if genTimeout <= 0 {
		genTimeout = ai.DefaultTimeout
	}
	return &Service{
		provider:         provider,
		prefs:            prefs,
		shopping:         shoppingRepo,
		plans:            plans,
		recipes:          recipeRepo,
		logger:           logger,
		genTimeout:       genTimeout,
		progressInterval: defaultProgressInterval,
		sessions:         make(map[string]*Session),
	}
}

// Open creates a new session. When a dietary profile is already stored the
// initial profile-collection stage is skipped entirely and the chat opens
// asking what to cook.
func (svc *Service) Open(ctx context.Context) (*Session, error) {
	profile, err := svc.prefs.Load(ctx)
	if err != nil {
		return nil, err
	}

	s := &Session{ID: uuid.New().String()}
	if profile.Empty() {
		s.stage = StageInitial
		s.append(models.NewPlainMessage(newMessageID(),
			"Before we begin, do you have any special dietary requirements or allergies I should consider?", false))
	} else {
		s.stage = StageRecipeRequest
		s.append(models.Message{
			ID:     newMessageID(),
			Text:   "What do you hunger for today?",
			IsUser: false,
			Kind:   models.MessageSurpriseMe,
		})
	}

	svc.mu.Lock()
	svc.sessions[s.ID] = s
	svc.mu.Unlock()

	svc.logger.Info("chat_session_opened",
		zap.String("session_id", s.ID),
		zap.String("stage", string(s.stage)))
	return s, nil
}

// Get returns the session with the given id
func (svc *Service) Get(id string) (*Session, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	s, ok := svc.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close drops the session from the registry
func (svc *Service) Close(id string) {
	svc.mu.Lock()
	delete(svc.sessions, id)
	svc.mu.Unlock()
}

// Messages returns a copy of the transcript and the current stage
func (svc *Service) Messages(id string) ([]models.Message, Stage, error) {
	s, err := svc.Get(id)
	if err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out, s.stage, nil
}

// append adds a message to the transcript. Caller holds s.mu (or owns the
// session exclusively, as in Open).
func (s *Session) append(msg models.Message) {
	s.messages = append(s.messages, msg)
}

// findMessage returns the transcript entry with the given id, caller holds s.mu
func (s *Session) findMessage(id string) *models.Message {
	for i := range s.messages {
		if s.messages[i].ID == id {
			return &s.messages[i]
		}
	}
	return nil
}

func newMessageID() string {
	return uuid.New().String()
}

func randomCuisine() string {
	return cuisines[rand.Intn(len(cuisines))]
}
