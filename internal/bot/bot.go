// Package bot is the Telegram boundary. It decodes updates into engine
// events, renders engine replies as messages and keyboards, and owns
// every user-visible interactive control (menus, the calendar, the
// cancel pick list).
package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/AndriiKibish/BBQ-reserve/internal/config"
	"github.com/AndriiKibish/BBQ-reserve/internal/engine"
	"github.com/AndriiKibish/BBQ-reserve/internal/metrics"
	"github.com/AndriiKibish/BBQ-reserve/internal/session"
	"github.com/AndriiKibish/BBQ-reserve/internal/storage"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	cfg       *config.Config
	engine    *engine.Engine
	store     *storage.Store
	sessions  session.Store
	logger    zerolog.Logger
	metrics   *metrics.Metrics
	managers  map[int64]struct{}
	blacklist map[int64]struct{}
}

func New(cfg *config.Config, eng *engine.Engine, store *storage.Store, sessions session.Store, logger zerolog.Logger, m *metrics.Metrics) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, err
	}
	api.Debug = cfg.Telegram.Debug

	managers := make(map[int64]struct{}, len(cfg.Managers))
	for _, id := range cfg.Managers {
		managers[id] = struct{}{}
	}
	blacklist := make(map[int64]struct{}, len(cfg.Blacklist))
	for _, id := range cfg.Blacklist {
		blacklist[id] = struct{}{}
	}

	return &Bot{
		api:       api,
		cfg:       cfg,
		engine:    eng,
		store:     store,
		sessions:  sessions,
		logger:    logger.With().Str("component", "bot").Logger(),
		metrics:   m,
		managers:  managers,
		blacklist: blacklist,
	}, nil
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info().Str("account", b.api.Self.UserName).Msg("bot authorized")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	started := time.Now()
	if b.metrics != nil {
		b.metrics.UpdatesProcessed.Inc()
		defer func() {
			b.metrics.HandleDuration.Observe(time.Since(started).Seconds())
			if mem, ok := b.sessions.(*session.MemoryStore); ok {
				b.metrics.ActiveSessions.Set(float64(mem.Len()))
			}
		}()
	}

	switch {
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	if b.isBlacklisted(userID) {
		return
	}

	if b.isManager(userID) && b.handleManagerCommand(ctx, msg) {
		return
	}

	ev := decodeMessage(userID, msg.Text)
	b.dispatch(ctx, msg.Chat.ID, ev)
}

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	userID := callback.From.ID
	if b.isBlacklisted(userID) {
		return
	}

	// Answer right away so the client stops showing a spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Warn().Err(err).Msg("answer callback failed")
	}

	if callback.Message == nil {
		return
	}

	data := callback.Data
	chatID := callback.Message.Chat.ID

	switch {
	case strings.HasPrefix(data, calPagePrefix):
		// Paging stays inside the date-picker widget; the engine only
		// ever sees the final selection.
		b.editCalendar(chatID, callback.Message.MessageID, strings.TrimPrefix(data, calPagePrefix))

	case data == calIgnore:
		// Decorative calendar cell.

	case strings.HasPrefix(data, calDayPrefix):
		date := strings.TrimPrefix(data, calDayPrefix)
		b.dispatch(ctx, chatID, engine.Event{UserID: userID, Command: engine.CmdDatePicked, Date: date})

	case strings.HasPrefix(data, cancelPickPrefix):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, cancelPickPrefix), 10, 64)
		if err != nil {
			b.logger.Warn().Str("data", data).Msg("bad cancel callback payload")
			return
		}
		b.dispatch(ctx, chatID, engine.Event{UserID: userID, Command: engine.CmdCancelPick, PickID: id})
	}
}

func (b *Bot) dispatch(ctx context.Context, chatID int64, ev engine.Event) {
	replies, err := b.engine.Handle(ctx, ev)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", ev.UserID).Stringer("command", ev.Command).Msg("engine step failed")
	}
	for _, reply := range replies {
		b.sendReply(chatID, reply)
	}
}

func (b *Bot) isManager(userID int64) bool {
	_, ok := b.managers[userID]
	return ok
}

func (b *Bot) isBlacklisted(userID int64) bool {
	_, ok := b.blacklist[userID]
	return ok
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send message failed")
	}
}
