package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"study-planner/internal/logger"
	"study-planner/internal/model"
	"study-planner/internal/service"
)

// botAPI is the part of *tgbotapi.BotAPI the bot uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot links Telegram chats to planner users and delivers their daily digest.
type Bot struct {
	api       botAPI
	userSvc   *service.UserService
	digestSvc *service.DigestService
	log       logger.Logger
	loc       *time.Location
	now       func() time.Time
}

var _ service.Notifier = (*Bot)(nil)

func New(token string, userSvc *service.UserService, digestSvc *service.DigestService, log logger.Logger, loc *time.Location) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "create bot api")
	}

	log.Info(fmt.Sprintf("bot authorized on account %s", api.Self.UserName))

	return newBot(api, userSvc, digestSvc, log, loc), nil
}

func newBot(api botAPI, userSvc *service.UserService, digestSvc *service.DigestService, log logger.Logger, loc *time.Location) *Bot {
	if loc == nil {
		loc = time.Local
	}
	return &Bot{
		api:       api,
		userSvc:   userSvc,
		digestSvc: digestSvc,
		log:       log,
		loc:       loc,
		now:       time.Now,
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil || update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			continue
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			b.log.Error("handle message", err)
		}
	}

	return nil
}

// SendText sends an HTML message to the chat.
func (b *Bot) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		return errors.Wrapf(err, "send message to %d", chatID)
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if !msg.IsCommand() {
		return b.SendText(msg.Chat.ID, "I only understand commands. Try /help.")
	}

	b.log.Debug(fmt.Sprintf("command from %d: /%s %s", msg.Chat.ID, msg.Command(), msg.CommandArguments()))

	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "today":
		return b.handleToday(ctx, msg)
	case "stop":
		return b.handleStop(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	default:
		return b.SendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.CommandArguments())
	if name == "" {
		return b.SendText(msg.Chat.ID, "Send /start &lt;name&gt; with the name you log in with.")
	}

	user, err := b.userSvc.GetByName(ctx, name)
	if errors.Is(err, model.ErrNotFound) {
		return b.SendText(msg.Chat.ID, fmt.Sprintf("No planner user named <b>%s</b>. Log in once on the web first.", escape(name)))
	}
	if err != nil {
		return err
	}

	chatID := msg.Chat.ID
	if err := b.userSvc.LinkTelegram(ctx, user, service.TelegramInput{ChatID: &chatID}); err != nil {
		return err
	}
	b.log.Info(fmt.Sprintf("chat %d linked", chatID), user)

	return b.SendText(chatID, fmt.Sprintf(
		"👋 Hi, %s! You will get your study plan here every morning.\n/today shows it now, /stop ends the digest.",
		escape(user.Name),
	))
}

func (b *Bot) handleToday(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.linkedUser(ctx, msg)
	if err != nil || user == nil {
		return err
	}
	text, err := b.digestSvc.Summary(ctx, user, b.now().In(b.loc))
	if err != nil {
		b.log.Error("build digest", err, user)
		return b.SendText(msg.Chat.ID, "Could not build the digest, try again later.")
	}
	return b.SendText(msg.Chat.ID, text)
}

func (b *Bot) handleStop(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.linkedUser(ctx, msg)
	if err != nil || user == nil {
		return err
	}
	if err := b.userSvc.LinkTelegram(ctx, user, service.TelegramInput{}); err != nil {
		return err
	}
	return b.SendText(msg.Chat.ID, "Digest stopped. Send /start &lt;name&gt; to resume.")
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Commands</b>\n" +
		"• /start &lt;name&gt; - get the daily digest for your planner user\n" +
		"• /today - today's tasks and their status\n" +
		"• /stop - stop the daily digest"
	return b.SendText(msg.Chat.ID, text)
}

// linkedUser returns the user linked to the chat. When there is none it answers the chat
// and returns a nil user.
func (b *Bot) linkedUser(ctx context.Context, msg *tgbotapi.Message) (*model.User, error) {
	user, err := b.userSvc.GetByTelegramChat(ctx, msg.Chat.ID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, b.SendText(msg.Chat.ID, "This chat is not linked yet. Send /start &lt;name&gt;.")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}
