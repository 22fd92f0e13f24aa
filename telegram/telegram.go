package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"outfitapi/prompt"
	"outfitapi/services"
	"outfitapi/stylist"

	"github.com/getsentry/sentry-go"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const skipData = "skip"

const helpText = "Send `/outfit` followed by what you need, for example:\n`/outfit all black for a date night`\nTap *Skip* to get another take on the same request."

// Sender is the part of the bot API the handlers talk to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot answers outfit requests for users who linked their Telegram username in the app.
type Bot struct {
	api    Sender
	users  services.UserStore
	engine *stylist.Engine

	mu sync.Mutex
	// last prompt per chat, replayed by the Skip button
	prompts map[int64]string
}

func NewBot(api Sender, users services.UserStore, engine *stylist.Engine) *Bot {
	return &Bot{
		api:     api,
		users:   users,
		engine:  engine,
		prompts: make(map[int64]string),
	}
}

func EscapeMessage(message string) string {
	r := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return r.Replace(message)
}

// Connect authorizes against the bot API and opens the long-polling update channel.
func Connect(token string, debug bool) (*tgbotapi.BotAPI, tgbotapi.UpdatesChannel, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, nil, fmt.Errorf("telegram bot init: %w", err)
	}
	api.Debug = debug
	log.Info().Str("account", api.Self.UserName).Msg("telegram bot authorized")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	return api, api.GetUpdatesChan(u), nil
}

// Run handles updates until ctx is done or the channel closes.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.Chat == nil {
		return
	}
	chatID := message.Chat.ID
	var msg tgbotapi.MessageConfig

	switch message.Command() {
	case "start", "help":
		msg = tgbotapi.NewMessage(chatID, helpText)
		msg.ParseMode = tgbotapi.ModeMarkdown
	case "outfit":
		msg = b.remember(ctx, chatID, message.From, message.CommandArguments())
	case "":
		// photos, stickers and other non-text messages
		if strings.TrimSpace(message.Text) == "" {
			return
		}
		msg = b.remember(ctx, chatID, message.From, message.Text)
	default:
		msg = tgbotapi.NewMessage(chatID, "Unknown command, try /help")
	}
	msg.ReplyToMessageID = message.MessageID
	b.send(ctx, msg)
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	callback := tgbotapi.NewCallback(query.ID, "")
	if query.Data == skipData && query.Message != nil && query.Message.Chat != nil {
		chatID := query.Message.Chat.ID
		b.mu.Lock()
		text, ok := b.prompts[chatID]
		b.mu.Unlock()
		if ok {
			b.send(ctx, b.Reply(ctx, chatID, query.From, text))
		} else {
			callback.Text = "Send /outfit first"
		}
	}
	if _, err := b.api.Request(callback); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("answering callback failed")
	}
}

func (b *Bot) remember(ctx context.Context, chatID int64, from *tgbotapi.User, text string) tgbotapi.MessageConfig {
	b.mu.Lock()
	b.prompts[chatID] = text
	b.mu.Unlock()
	return b.Reply(ctx, chatID, from, text)
}

// Reply builds the answer to one outfit request without sending it.
func (b *Bot) Reply(ctx context.Context, chatID int64, from *tgbotapi.User, text string) tgbotapi.MessageConfig {
	if from == nil || from.UserName == "" {
		return tgbotapi.NewMessage(chatID, "Set a Telegram username and add it to your profile in the app first.")
	}
	user, err := b.users.FindUserByTelegram(ctx, from.UserName)
	if errors.Is(err, services.ErrUserNotFound) {
		return tgbotapi.NewMessage(chatID, fmt.Sprintf("@%s is not linked to a wardrobe yet. Add it to your profile in the app.", from.UserName))
	}
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Telegram %s] find user: %w", from.UserName, err))
		return tgbotapi.NewMessage(chatID, "Something went wrong, please try again later.")
	}

	candidate := b.engine.GenerateCandidate(ctx, prompt.Parse(text), user.ID)
	if candidate == nil {
		return tgbotapi.NewMessage(chatID, "I could not put an outfit together. Add some shoes and a top with bottoms, or a dress.")
	}
	msg := tgbotapi.NewMessage(chatID, FormatCandidate(candidate))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Skip", skipData)),
	)
	return msg
}

func (b *Bot) send(ctx context.Context, msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("chat_id", msg.ChatID).Msg("telegram send failed")
	}
}

// FormatCandidate renders the slots in display order as markdown.
func FormatCandidate(c *stylist.Candidate) string {
	title := cases.Title(language.English)
	var sb strings.Builder
	sb.WriteString("Here is your outfit:\n")
	for _, slot := range c.OrderedItems() {
		sb.WriteString(fmt.Sprintf("• *%s*: %s", title.String(slot.Kind.String()), EscapeMessage(slot.Item.Name)))
		if len(slot.Item.Colors) > 0 {
			sb.WriteString(fmt.Sprintf(" (%s)", EscapeMessage(strings.Join(slot.Item.Colors, ", "))))
		}
		sb.WriteString("\n")
	}
	if c.Note != nil {
		sb.WriteString(fmt.Sprintf("\n_%s_", EscapeMessage(*c.Note)))
	}
	return sb.String()
}
