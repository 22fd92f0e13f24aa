package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"outfitapi/languageutil"
	"outfitapi/metrics"
	"outfitapi/models"
	"outfitapi/prompt"
	"outfitapi/services"
	"outfitapi/stylist"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	TypeOutfitSuggest = "outfit:suggest"
	TypeOutfitDaily   = "outfit:daily"

	QueueSuggest = "suggest"
)

type OutfitSuggestionPayload struct {
	UserID uint   `json:"user_id"`
	Prompt string `json:"prompt"`
}

// Enqueuer is the part of *asynq.Client the API and the daily job use.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func NewOutfitSuggestionTask(userID uint, promptText string) (*asynq.Task, error) {
	payload, err := json.Marshal(OutfitSuggestionPayload{UserID: userID, Prompt: promptText})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOutfitSuggest, payload), nil
}

func NewDailySuggestionTask() *asynq.Task {
	return asynq.NewTask(TypeOutfitDaily, nil)
}

// EnqueueSuggestion sends one suggestion task to the suggest queue.
func EnqueueSuggestion(client Enqueuer, userID uint, promptText string, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	task, err := NewOutfitSuggestionTask(userID, promptText)
	if err != nil {
		return nil, fmt.Errorf("build suggestion task: %w", err)
	}
	opts = append([]asynq.Option{asynq.MaxRetry(3), asynq.Queue(QueueSuggest)}, opts...)
	info, err := client.Enqueue(task, opts...)
	if err != nil {
		return nil, fmt.Errorf("enqueue suggestion for user %d: %w", userID, err)
	}
	return info, nil
}

// HandleOutfitSuggestionTask generates an outfit for the payload's prompt and
// stores it as a suggestion. No outfit is not a failure; the task simply ends.
func HandleOutfitSuggestionTask(
	ctx context.Context,
	t *asynq.Task,
	users services.UserStore,
	engine *stylist.Engine,
	outfits services.OutfitStore,
	notifier services.Notifier,
	reg *metrics.Registry,
) error {
	var p OutfitSuggestionPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	logger := log.Ctx(ctx).With().Str("task", TypeOutfitSuggest).Uint("user_id", p.UserID).Logger()

	user, err := users.FindUser(ctx, p.UserID)
	if errors.Is(err, services.ErrUserNotFound) {
		logger.Warn().Msg("suggestion for unknown user dropped")
		return fmt.Errorf("user %d: %v: %w", p.UserID, err, asynq.SkipRetry)
	}
	if err != nil {
		return err
	}

	query := prompt.Parse(p.Prompt)
	candidate := engine.GenerateCandidate(ctx, query, user.ID)
	if candidate == nil {
		logger.Info().Str("prompt", p.Prompt).Msg("no outfit could be suggested")
		return nil
	}

	outfit, err := outfits.SaveOutfit(ctx, user.ID, candidate.OrderedItems(), services.OutfitMeta{
		Name:     SuggestionName(query),
		Occasion: query.Occasion,
		Status:   models.OutfitStatusSuggested,
		Prompt:   services.StrPointer(p.Prompt),
		Note:     candidate.Note,
	})
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[User %v] saving suggested outfit: %w", user.ID, err))
		return err
	}
	reg.Inc(ctx, metrics.OutfitSaved, map[string]string{"status": models.OutfitStatusSuggested})
	logger.Info().Uint("outfit_id", outfit.ID).Int("items", len(outfit.Items)).Msg("outfit suggested")

	if !user.ReceiveNotifications || notifier == nil {
		return nil
	}
	body := fmt.Sprintf("%s is waiting in your wardrobe.", outfit.Name)
	if candidate.Note != nil {
		body = *candidate.Note
	}
	data := map[string]string{"type": "outfit_suggestion", "outfit_id": strconv.FormatUint(uint64(outfit.ID), 10)}
	if err := notifier.Notify(ctx, user.ID, "Your outfit is ready", body, data); err != nil {
		// the outfit is saved, a retry would only duplicate it
		logger.Warn().Err(err).Msg("suggestion push failed")
		sentry.CaptureException(err)
	}
	return nil
}

// HandleDailySuggestionTask fans the daily prompt of every opted-in user out
// into suggestion tasks.
func HandleDailySuggestionTask(ctx context.Context, t *asynq.Task, users services.UserStore, client Enqueuer, reg *metrics.Registry) error {
	list, err := users.UsersWithDailyPrompt(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, user := range list {
		_, err := EnqueueSuggestion(client, user.ID, user.DailyPrompt, asynq.Unique(20*time.Hour))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		reg.Inc(ctx, metrics.SuggestionsEnqueued, map[string]string{"source": "daily"})
	}
	log.Ctx(ctx).Info().Int("users", len(list)).Int("failed", len(errs)).Msg("daily suggestions enqueued")
	return errors.Join(errs...)
}

// SuggestionName names a suggested outfit after what was asked for.
func SuggestionName(q *prompt.PromptQuery) string {
	caser := cases.Title(language.English)
	switch {
	case q.Occasion != nil:
		return caser.String(*q.Occasion) + " Outfit"
	case q.DressCode != nil:
		return caser.String(*q.DressCode) + " Outfit"
	}
	return languageutil.RandomOutfitName()
}
