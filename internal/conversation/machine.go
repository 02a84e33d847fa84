package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chefchat/chefchat/internal/models"
	"github.com/chefchat/chefchat/internal/services/ai"
	"go.uber.org/zap"
)

// Option is a structured option-button press
type Option struct {
	Kind  OptionKind `json:"kind"`
	Value int        `json:"value,omitempty"`
}

// OptionKind names the option-button variants
type OptionKind string

const (
	OptionSurpriseMe     OptionKind = "surprise_me"
	OptionCount          OptionKind = "count"
	OptionServings       OptionKind = "servings"
	OptionCustomServings OptionKind = "custom_servings"
)

// HandleMessage processes one free-text user message against the session's
// current stage. Unparseable input re-prompts without advancing the stage;
// messages sent while a generation is in flight are ignored.
func (svc *Service) HandleMessage(ctx context.Context, sessionID, text string) ([]models.Message, error) {
	s, err := svc.Get(sessionID)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return svc.transcript(s), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generating {
		svc.logger.Debug("message_ignored_while_generating", zap.String("session_id", sessionID))
		return svc.transcriptLocked(s), nil
	}

	s.append(models.NewPlainMessage(newMessageID(), text, true))

	switch s.stage {
	case StageInitial:
		svc.handleInitial(ctx, s, text)
	case StageRecipeRequest:
		svc.handleRecipeRequest(ctx, s, text)
	case StageRecipeCount:
		svc.handleCount(s, text)
	case StageServings:
		svc.handleServings(s, text)
	case StageGenerating:
		svc.handlePostGeneration(s)
	}
	return svc.transcriptLocked(s), nil
}

// handlePostGeneration answers free text sent after generation finished.
// The recipes are already in the transcript, so the reply re-surfaces the
// follow-up actions instead of leaving the message unanswered.
func (svc *Service) handlePostGeneration(s *Session) {
	s.append(models.NewPlainMessage(newMessageID(),
		"Your recipes are ready. What would you like to do with them?", false))
	svc.appendActionPrompts(s)
}

// handleInitial gates the very first message on being cooking-related, then
// extracts and persists the dietary profile
func (svc *Service) handleInitial(ctx context.Context, s *Session, text string) {
	check, err := svc.provider.ClassifyCookingRelated(ctx, text)
	if err != nil {
		svc.logger.Warn("classification_failed", zap.Error(err))
		s.append(models.NewPlainMessage(newMessageID(),
			"I had trouble understanding that. Could you tell me again about your dietary requirements?", false))
		return
	}
	if !check.IsCookingRelated {
		decline := check.Message
		if decline == "" {
			decline = "Sorry, I can only answer questions about cooking and recipes. Please ask me something food-related."
		}
		s.append(models.NewPlainMessage(newMessageID(), decline, false))
		return
	}

	if _, err := svc.prefs.ExtractFromText(ctx, svc.provider, text); err != nil {
		svc.logger.Error("failed_to_persist_preferences", zap.Error(err))
	}

	s.stage = StageRecipeRequest
	s.append(models.Message{
		ID:     newMessageID(),
		Text:   "Thanks, I noted your preferences. What do you hunger for today?",
		IsUser: false,
		Kind:   models.MessageSurpriseMe,
	})
}

// handleRecipeRequest soft-gates the query on being cooking-related and
// stores it as the recipe request
func (svc *Service) handleRecipeRequest(ctx context.Context, s *Session, text string) {
	check, err := svc.provider.ClassifyCookingRelated(ctx, text)
	if err != nil {
		// soft gate only: a failed classification never blocks the flow
		svc.logger.Warn("classification_failed", zap.Error(err))
	} else if !check.IsCookingRelated {
		decline := check.Message
		if decline == "" {
			decline = "Sorry, I can only answer questions about cooking and recipes. Please ask me something food-related."
		}
		s.append(models.NewPlainMessage(newMessageID(), decline, false))
		return
	}

	s.requestText = text
	s.stage = StageRecipeCount
	s.append(models.Message{
		ID:     newMessageID(),
		Text:   "How many recipes would you like to generate?",
		IsUser: false,
		Kind:   models.MessageCountOptions,
	})
}

func (svc *Service) handleCount(s *Session, text string) {
	count, ok := ParseRecipeCount(text)
	if !ok {
		s.append(models.Message{
			ID:     newMessageID(),
			Text:   "Please choose how many recipes I should create (2-5):",
			IsUser: false,
			Kind:   models.MessageCountOptions,
		})
		return
	}
	svc.acceptCount(s, count)
}

func (svc *Service) acceptCount(s *Session, count int) {
	s.recipeCount = count
	s.stage = StageServings
	s.append(models.Message{
		ID:     newMessageID(),
		Text:   "How many servings would you like?",
		IsUser: false,
		Kind:   models.MessageServingsOptions,
	})
}

func (svc *Service) handleServings(s *Session, text string) {
	servings, ok := ParseServings(text)
	if !ok {
		s.append(models.Message{
			ID:     newMessageID(),
			Text:   "How many servings would you like?",
			IsUser: false,
			Kind:   models.MessageServingsOptions,
		})
		return
	}
	svc.acceptServings(s, servings)
}

// acceptServings stores the final slot and kicks off generation. Caller
// holds s.mu.
func (svc *Service) acceptServings(s *Session, servings int) {
	s.servings = servings
	s.stage = StageGenerating
	s.generating = true
	s.genDone = make(chan struct{})

	msgID := newMessageID()
	s.append(models.Message{
		ID: msgID,
		Text: fmt.Sprintf("I plan with %d servings per recipe and create %d suitable recipes for you...",
			servings, s.recipeCount),
		IsUser:   false,
		Kind:     models.MessageGenerating,
		Progress: &models.Progress{Stage: progressStages[0].Stage, Percent: progressStages[0].Percent},
	})

	go svc.generate(s, msgID)
}

// HandleOption processes a structured option-button press
func (svc *Service) HandleOption(ctx context.Context, sessionID string, opt Option) ([]models.Message, error) {
	s, err := svc.Get(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generating {
		return svc.transcriptLocked(s), nil
	}

	switch opt.Kind {
	case OptionSurpriseMe:
		svc.handleSurpriseMe(s)
	case OptionCount:
		if s.stage != StageRecipeCount {
			return nil, fmt.Errorf("count option not valid in stage %s", s.stage)
		}
		s.append(models.NewPlainMessage(newMessageID(), fmt.Sprintf("%dx", opt.Value), true))
		if opt.Value < minRecipeCount || opt.Value > maxRecipeCount {
			svc.handleCount(s, "")
		} else {
			svc.acceptCount(s, opt.Value)
		}
	case OptionServings, OptionCustomServings:
		if s.stage != StageServings {
			return nil, fmt.Errorf("servings option not valid in stage %s", s.stage)
		}
		s.append(models.NewPlainMessage(newMessageID(), fmt.Sprintf("%dx", opt.Value), true))
		if opt.Value < minServings || opt.Value > maxServings {
			svc.handleServings(s, "")
		} else {
			svc.acceptServings(s, opt.Value)
		}
	default:
		return nil, fmt.Errorf("unknown option kind %q", opt.Kind)
	}
	return svc.transcriptLocked(s), nil
}

// handleSurpriseMe synthesizes a recipe request from a random cuisine and
// jumps straight to the count stage
func (svc *Service) handleSurpriseMe(s *Session) {
	cuisine := randomCuisine()
	s.requestText = fmt.Sprintf("I want %s dishes", cuisine)
	s.stage = StageRecipeCount

	s.append(models.NewPlainMessage(newMessageID(), "Surprise me", true))
	s.append(models.Message{
		ID:     newMessageID(),
		Text:   fmt.Sprintf("I'll surprise you with %s recipes! How many recipes should I suggest?", cuisine),
		IsUser: false,
		Kind:   models.MessageCountOptions,
	})
}

// HandleAction runs a post-generation follow-up action
func (svc *Service) HandleAction(ctx context.Context, sessionID string, action models.ActionKind, recipeID string) ([]models.Message, error) {
	s, err := svc.Get(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if action == models.ActionGoToShoppingList {
		// pure navigation on the client, nothing to do server-side
		return svc.transcriptLocked(s), nil
	}
	if len(s.generated) == 0 {
		return nil, ErrNoGeneratedRecipes
	}

	switch action {
	case models.ActionAddToShoppingList:
		var ingredients []models.Ingredient
		for _, recipe := range s.generated {
			ingredients = append(ingredients, recipe.Ingredients...)
		}
		list, err := svc.shopping.AddIngredients(ctx, ingredients)
		if err != nil {
			return nil, err
		}
		s.append(models.NewPlainMessage(newMessageID(),
			fmt.Sprintf("I added the ingredients to %s.", list.Name), false))
		s.append(models.Message{
			ID:     newMessageID(),
			Text:   "Go to shopping list",
			IsUser: false,
			Kind:   models.MessageAction,
			Action: models.ActionGoToShoppingList,
		})
	case models.ActionAddToWeekPlan:
		plan, err := svc.plans.DistributeRecipes(ctx, s.generated)
		if err != nil {
			return nil, err
		}
		s.append(models.NewPlainMessage(newMessageID(),
			fmt.Sprintf("I added the recipes to %s.", plan.Name), false))
	case models.ActionStartCooking:
		recipe := &s.generated[0]
		if recipeID != "" {
			recipe = nil
			for i := range s.generated {
				if s.generated[i].ID == recipeID {
					recipe = &s.generated[i]
					break
				}
			}
			if recipe == nil {
				return nil, fmt.Errorf("recipe %q is not part of this session", recipeID)
			}
		}
		if err := svc.recipes.SetCurrent(ctx, recipe); err != nil {
			return nil, err
		}
		s.append(models.NewPlainMessage(newMessageID(),
			fmt.Sprintf("Enjoy cooking %s!", recipe.Title), false))
	default:
		return nil, fmt.Errorf("unknown action %q", action)
	}
	return svc.transcriptLocked(s), nil
}

// generate runs the real generation call while a cosmetic progress animation
// walks the stage ladder. The transcript finalizes only when the call
// settles; the animation is cancelled and ignored at that point.
func (svc *Service) generate(s *Session, msgID string) {
	ctx, cancel := context.WithTimeout(context.Background(), svc.genTimeout)
	defer cancel()

	s.mu.Lock()
	done := s.genDone
	req := ai.GenerationRequest{
		Preferences: s.requestText,
		RecipeCount: s.recipeCount,
		Servings:    s.servings,
	}
	s.mu.Unlock()

	if profile, err := svc.prefs.Load(ctx); err != nil {
		svc.logger.Warn("failed_to_load_profile_for_generation", zap.Error(err))
	} else {
		req.Profile = profile
	}

	go svc.animateProgress(s, msgID, req.RecipeCount, done)

	recipes, err := svc.provider.GenerateRecipes(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer close(done)
	s.generating = false

	msg := s.findMessage(msgID)
	if err != nil {
		svc.logger.Error("recipe_generation_failed",
			zap.String("session_id", s.ID),
			zap.Error(err))
		if msg != nil {
			msg.Progress = &models.Progress{Stage: progressStageFailed, Failed: true}
		}
		s.append(models.NewPlainMessage(newMessageID(),
			"There was a problem generating the recipes. Please try again later.", false))
		s.stage = StageServings
		return
	}

	s.generated = recipes
	if msg != nil {
		msg.Progress = &models.Progress{Stage: progressStageDone, Percent: 100, Done: true}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Here are %d recipes based on your preferences:\n\n", len(recipes))
	for i, recipe := range recipes {
		fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, recipe.Title, recipe.Time)
	}
	s.append(models.NewPlainMessage(newMessageID(), sb.String(), false))
	svc.appendActionPrompts(s)
	svc.logger.Info("recipes_generated",
		zap.String("session_id", s.ID),
		zap.Int("recipe_count", len(recipes)))
}

// appendActionPrompts adds the three follow-up action messages. Caller
// holds the session lock.
func (svc *Service) appendActionPrompts(s *Session) {
	s.append(models.Message{
		ID: newMessageID(), Text: "Add to shopping list", IsUser: false,
		Kind: models.MessageAction, Action: models.ActionAddToShoppingList,
	})
	s.append(models.Message{
		ID: newMessageID(), Text: "Add to week plan", IsUser: false,
		Kind: models.MessageAction, Action: models.ActionAddToWeekPlan,
	})
	s.append(models.Message{
		ID: newMessageID(), Text: "Cook now", IsUser: false,
		Kind: models.MessageAction, Action: models.ActionStartCooking,
	})
}

// animateProgress walks the progress ladder with jittered delays until the
// generation settles. Updates after settlement are suppressed by the
// generating flag.
func (svc *Service) animateProgress(s *Session, msgID string, recipeCount int, done <-chan struct{}) {
	interval := svc.progressInterval(recipeCount)
	for _, p := range progressStages[1:] {
		timer := time.NewTimer(jitter(interval))
		select {
		case <-done:
			timer.Stop()
			return
		case <-timer.C:
		}

		s.mu.Lock()
		if s.generating {
			if msg := s.findMessage(msgID); msg != nil {
				msg.Progress = &models.Progress{Stage: p.Stage, Percent: p.Percent}
			}
		}
		s.mu.Unlock()
	}
}

func (svc *Service) transcript(s *Session) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return svc.transcriptLocked(s)
}

func (svc *Service) transcriptLocked(s *Session) []models.Message {
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}
